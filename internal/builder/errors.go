package builder

import (
	"context"
	"errors"

	"github.com/goliatone/go-contentjson/internal/extract"
	"github.com/goliatone/go-contentjson/internal/manifest"
	goerrors "github.com/goliatone/go-errors"
)

const (
	codeUnclassifiable   = "CONTENT_UNCLASSIFIABLE"
	codeFragmentID       = "FRAGMENT_MISSING_ID"
	codeDuplicateID      = "FRAGMENT_DUPLICATE_ID"
	codeLastModified     = "LAST_MODIFIED_INVALID"
	codeSchema           = "MANIFEST_SCHEMA_INVALID"
	codeContentInvalid   = "CONTENT_INVALID"
	codeScanFailed       = "CONTENT_SCAN_FAILED"
	codeWriteFailed      = "MANIFEST_WRITE_FAILED"
	codeStoreMissing     = "MANIFEST_STORE_MISSING"
	codeBuildInterrupted = "BUILD_INTERRUPTED"
)

var errStoreRequired = errors.New("builder: manifest store is required to persist")

// contentCodes maps content sentinels to text codes, checked in order.
var contentCodes = []struct {
	err  error
	code string
}{
	{extract.ErrUnclassifiable, codeUnclassifiable},
	{extract.ErrFragmentMissingID, codeFragmentID},
	{extract.ErrInvalidLastModified, codeLastModified},
	{manifest.ErrDuplicateFragmentID, codeDuplicateID},
	{manifest.ErrSchemaValidation, codeSchema},
}

func wrapContentError(err error, message string) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	code := codeContentInvalid
	for _, candidate := range contentCodes {
		if errors.Is(err, candidate.err) {
			code = candidate.code
			break
		}
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, message).WithTextCode(code)
}

func wrapIOError(err error, message, code string) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		code = codeBuildInterrupted
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, message).WithTextCode(code)
}
