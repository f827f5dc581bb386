package ingest

import (
	"fmt"
	"strings"

	"PokerClubBooks/api/constants"
)

// ValidationError marks errors that are the uploader's fault: the whole file
// is rejected, the caller gets the text verbatim, nothing is retried.
type ValidationError interface {
	error
	ValidationError()
}

// IsValidationError reports whether err should map to a 400-class response.
func IsValidationError(err error) bool {
	_, ok := err.(ValidationError)
	return ok
}

// UnsupportedFileError: the filename extension is not a format we parse.
type UnsupportedFileError struct{}

func (UnsupportedFileError) Error() string    { return constants.ErrUnsupportedFile }
func (UnsupportedFileError) ValidationError() {}

// FileParseError: the bytes could not be read as the format the extension
// claims. The uploader sent a broken file, not us a broken store.
type FileParseError struct {
	Format string
	Err    error
}

func (e FileParseError) Error() string {
	return fmt.Sprintf("could not parse %s file: %v", e.Format, e.Err)
}
func (e FileParseError) Unwrap() error  { return e.Err }
func (FileParseError) ValidationError() {}

// EmptyFileError: the table parsed but had no data rows.
type EmptyFileError struct{}

func (EmptyFileError) Error() string    { return "CSV file is empty" }
func (EmptyFileError) ValidationError() {}

// MissingSessionFieldError: a session-level column is absent from the header
// or empty in the first row, so its file-wide value cannot be established.
type MissingSessionFieldError struct {
	Column   string
	InHeader bool
}

func (e MissingSessionFieldError) Error() string {
	if !e.InHeader {
		return fmt.Sprintf("Required column '%s' is missing from CSV", e.Column)
	}
	return fmt.Sprintf("Required column '%s' is missing or empty in first row", e.Column)
}
func (MissingSessionFieldError) ValidationError() {}

// MissingColumnError: one or more required row-level columns are absent.
type MissingColumnError struct {
	Columns []string
}

func (e MissingColumnError) Error() string {
	return fmt.Sprintf("Missing required columns: [%s]", strings.Join(e.Columns, ", "))
}
func (MissingColumnError) ValidationError() {}

// InvalidNumericDataError: after coercion, at least one row held a null in a
// numeric column. The file is rejected whole; there is no partial acceptance.
type InvalidNumericDataError struct{}

func (InvalidNumericDataError) Error() string    { return "Numeric columns contain invalid values" }
func (InvalidNumericDataError) ValidationError() {}
