package models

// Streak tracks consecutive upload days for one user. LastUploadDate is a
// calendar date formatted 2006-01-02; comparing formatted strings avoids
// timezone drift on a DATE column.
type Streak struct {
	UserID         string `db:"user_id" json:"user_id"`
	Count          int    `db:"streak" json:"streak"`
	LastUploadDate string `db:"last_upload_date" json:"last_upload_date"`
}
