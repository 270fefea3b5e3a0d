package selfupdate

// RepositoryID is the numeric identifier of a project, as used by GitLab.
type RepositoryID int

// Repository interface
var _ Repository = RepositoryID(0)

// NewRepositoryID creates a repository ID from an integer
func NewRepositoryID(id int) RepositoryID {
	return RepositoryID(id)
}

// GetSlug always fails: a project ID carries no owner nor name.
func (r RepositoryID) GetSlug() (string, string, error) {
	return "", "", ErrInvalidID
}

func (r RepositoryID) Get() (interface{}, error) {
	if r <= 0 {
		return 0, ErrInvalidID
	}
	return int(r), nil
}
