package service

import (
	"encoding/json"
)

// VerificationRecord is one identity-verification case, parsed from a
// JSON document in the origin directory. The record owns its asset
// references (URLs) but not the downloaded bytes.
//
// The raw parsed document is kept alongside the typed view so the
// assembler can commit a normalized, whitespace-compact copy as
// data.json without losing fields the typed view doesn't model.
type VerificationRecord struct {
	VerificationID string
	Documents      []DocumentEntry `json:"documents"`
	Steps          []StepEntry     `json:"steps"`

	raw interface{}
}

// DocumentEntry holds the ordered photo URLs for one identity
// document: front at index 0, back at index 1 if present.
type DocumentEntry struct {
	Photos []string `json:"photos"`
}

// StepEntry holds the optional media URLs captured during one
// verification step.
type StepEntry struct {
	SelfieURL string `json:"selfieUrl"`
	SpriteURL string `json:"spriteUrl"`
	VideoURL  string `json:"videoUrl"`
}

// VerificationRecordFromJSON parses a verification record document.
// The verification ID comes from the source filename, not the
// document body, so the caller supplies it.
func VerificationRecordFromJSON(jsonData []byte, verificationID string) (*VerificationRecord, error) {
	record := &VerificationRecord{VerificationID: verificationID}
	if err := json.Unmarshal(jsonData, record); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(jsonData, &record.raw); err != nil {
		return nil, err
	}
	return record, nil
}

// NormalizedJSON returns the whitespace-compact serialization of the
// full parsed document. This is what the assembler commits as
// data.json.
func (record *VerificationRecord) NormalizedJSON() ([]byte, error) {
	return json.Marshal(record.raw)
}
