package share

import "errors"

var (
	ErrShareNotFound     = errors.New("shared document not found")
	ErrDocumentNotFound  = errors.New("document not found")
	ErrInvalidPermission = errors.New("invalid permission")
	ErrRecipientRequired = errors.New("recipient is required")
	ErrSelfShare         = errors.New("cannot share a document with yourself")
	ErrNotDocumentOwner  = errors.New("only the document owner may share it")
	ErrNotGrantOwner     = errors.New("only the grantor may revoke a share")
)
