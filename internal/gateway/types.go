package gateway

// Wire types for Bitbucket Server's REST API. Field sets are trimmed to
// what the auditors consume.

// Project is one entry of the /projects listing.
type Project struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Repo is one entry of a project's /repos listing.
type Repo struct {
	Slug    string `json:"slug"`
	Name    string `json:"name"`
	Project struct {
		Key string `json:"key"`
	} `json:"project"`
}

type ref struct {
	DisplayID string `json:"displayId"`
}

// PullRequest is one entry of a repo's /pull-requests listing. Timestamps
// are epoch milliseconds.
type PullRequest struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	State       string `json:"state"`
	CreatedDate int64  `json:"createdDate"`
	UpdatedDate int64  `json:"updatedDate"`
	Author      struct {
		User struct {
			Name        string `json:"name"`
			DisplayName string `json:"displayName"`
		} `json:"user"`
	} `json:"author"`
	FromRef ref `json:"fromRef"`
	ToRef   ref `json:"toRef"`
}

// Commit is one entry of a pull request's /commits listing.
type Commit struct {
	ID        string `json:"id"`
	DisplayID string `json:"displayId"`
}

// GroupPermission is one (group, permission) pair from a /permissions/groups listing.
type GroupPermission struct {
	Group struct {
		Name string `json:"name"`
	} `json:"group"`
	Permission string `json:"permission"`
}

// UserPermission is one (user, permission) pair from a /permissions/users listing.
type UserPermission struct {
	User struct {
		Name        string `json:"name"`
		DisplayName string `json:"displayName"`
	} `json:"user"`
	Permission string `json:"permission"`
}

// TaskCount is the response of a pull request's /tasks/count endpoint.
type TaskCount struct {
	Open     int `json:"open"`
	Resolved int `json:"resolved"`
}

// Issue is one linked issue from the Jira integration endpoint.
type Issue struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
