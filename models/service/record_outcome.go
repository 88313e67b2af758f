package service

import (
	"encoding/json"
	"fmt"

	"github.com/verident/mediasync/constants"
	"github.com/verident/mediasync/util"
)

// RecordOutcome is the result of assembling one verification record.
// Status is one of constants.StatusSuccess, StatusPartialSuccess,
// StatusSkipped, StatusError. Outcomes are never mutated after
// creation; the coordinator only counts them.
type RecordOutcome struct {
	VerificationID string   `json:"verification_id"`
	SourceFile     string   `json:"source_file"`
	Status         string   `json:"status"`
	Reason         string   `json:"reason,omitempty"`
	FailedAssets   []string `json:"failed_assets,omitempty"`
}

func RecordSuccess(verificationID, sourceFile string) RecordOutcome {
	return RecordOutcome{
		VerificationID: verificationID,
		SourceFile:     sourceFile,
		Status:         constants.StatusSuccess,
	}
}

// RecordPartialSuccess means data.json was committed but one or more
// asset downloads failed. FailedAssets names at least one failed
// asset class.
func RecordPartialSuccess(verificationID, sourceFile, reason string, failedAssets []string) RecordOutcome {
	return RecordOutcome{
		VerificationID: verificationID,
		SourceFile:     sourceFile,
		Status:         constants.StatusPartialSuccess,
		Reason:         reason,
		FailedAssets:   failedAssets,
	}
}

func RecordSkipped(verificationID, sourceFile, reason string) RecordOutcome {
	return RecordOutcome{
		VerificationID: verificationID,
		SourceFile:     sourceFile,
		Status:         constants.StatusSkipped,
		Reason:         reason,
	}
}

func RecordFailed(verificationID, sourceFile, reason string) RecordOutcome {
	return RecordOutcome{
		VerificationID: verificationID,
		SourceFile:     sourceFile,
		Status:         constants.StatusError,
		Reason:         reason,
	}
}

func (outcome RecordOutcome) Succeeded() bool {
	return outcome.Status == constants.StatusSuccess
}

func (outcome RecordOutcome) ToJSON() (string, error) {
	data, err := json.Marshal(outcome)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// RecordOutcomeFromJSON converts the JSON representation of a
// RecordOutcome back into a full-fledged object. Outcomes read back
// from the Redis mirror must carry a known status.
func RecordOutcomeFromJSON(jsonData string) (RecordOutcome, error) {
	outcome := RecordOutcome{}
	if err := json.Unmarshal([]byte(jsonData), &outcome); err != nil {
		return outcome, err
	}
	if !util.StringListContains(constants.RecordStatuses, outcome.Status) {
		return outcome, fmt.Errorf("unknown record status %q", outcome.Status)
	}
	return outcome, nil
}
