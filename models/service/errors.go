package service

import (
	"fmt"
)

// The pipeline distinguishes fatal errors, which abort a whole run,
// from per-unit errors, which are converted to result values at the
// unit boundary and never propagate into the pool's collection loop.
// Only CredentialError and ListingError are fatal.

// CredentialError means the trust exchange failed or the S3 client
// could not be constructed. There is no retry at this layer.
type CredentialError struct {
	Err     error
	RoleARN string
}

func NewCredentialError(roleARN string, err error) *CredentialError {
	return &CredentialError{Err: err, RoleARN: roleARN}
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("credential exchange for role %s failed: %v", e.RoleARN, e.Err)
}

func (e *CredentialError) Unwrap() error {
	return e.Err
}

// ListingError means a listing call failed partway through. Items
// yielded before the failure remain valid.
type ListingError struct {
	Err    error
	Bucket string
	Prefix string
}

func NewListingError(bucket, prefix string, err error) *ListingError {
	return &ListingError{Err: err, Bucket: bucket, Prefix: prefix}
}

func (e *ListingError) Error() string {
	return fmt.Sprintf("listing %s/%s failed: %v", e.Bucket, e.Prefix, e.Err)
}

func (e *ListingError) Unwrap() error {
	return e.Err
}

// TransferError is a per-object download failure. It is recorded in
// the object's TransferResult and never aborts sibling transfers.
type TransferError struct {
	Err       error
	RemoteKey string
	LocalPath string
}

func NewTransferError(remoteKey, localPath string, err error) *TransferError {
	return &TransferError{Err: err, RemoteKey: remoteKey, LocalPath: localPath}
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer of %s to %s failed: %v", e.RemoteKey, e.LocalPath, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// RecordError is a per-record read, parse, or commit failure. The
// record's outcome becomes Error; siblings are unaffected.
type RecordError struct {
	Err        error
	SourceFile string
	Reason     string
}

func NewRecordError(sourceFile, reason string, err error) *RecordError {
	return &RecordError{Err: err, SourceFile: sourceFile, Reason: reason}
}

func (e *RecordError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("record %s: %s: %v", e.SourceFile, e.Reason, e.Err)
	}
	return fmt.Sprintf("record %s: %s", e.SourceFile, e.Reason)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// AssetError is a per-asset fetch failure. It downgrades the record
// to PartialSuccess but never stops the record's remaining assets.
type AssetError struct {
	Err   error
	Asset string
	URL   string
}

func NewAssetError(asset, url string, err error) *AssetError {
	return &AssetError{Err: err, Asset: asset, URL: url}
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("asset %s (%s): %v", e.Asset, e.URL, e.Err)
}

func (e *AssetError) Unwrap() error {
	return e.Err
}
