package editor

// Status is the session feedback string shown by the render layer.
type Status string

const (
	StatusEditing         Status = "editing..."
	StatusSaving          Status = "saving..."
	StatusSaved           Status = "saved"
	StatusErrorSaving     Status = "error saving"
	StatusPublishing      Status = "publishing..."
	StatusUpdating        Status = "updating..."
	StatusPublished       Status = "published"
	StatusUpdated         Status = "updated"
	StatusErrorPublishing Status = "error publishing"
	StatusErrorUpdating   Status = "error updating"
)
