package graph

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// RecordedIO captures one external interaction (an LLM call, a query)
// performed by a node whose SideEffectPolicy.Recordable is true, so
// replay can return the same response without re-invoking the
// external service. Hash lets a later live execution be checked
// against the recording instead of blindly trusted.
type RecordedIO struct {
	NodeID    string          `json:"node_id"`
	Attempt   int             `json:"attempt"`
	Request   json.RawMessage `json:"request"`
	Response  json.RawMessage `json:"response"`
	Hash      string          `json:"hash"`
	Timestamp time.Time       `json:"timestamp"`
	Duration  time.Duration   `json:"duration"`
}

func hashJSON(data []byte) string {
	h := sha256.Sum256(data)
	return "sha256:" + hex.EncodeToString(h[:])
}

// recordIO serializes request/response to JSON and returns a RecordedIO
// ready to store in a checkpoint, with Hash computed over the response
// for later mismatch detection.
func recordIO(nodeID string, attempt int, request, response interface{}) (RecordedIO, error) {
	start := time.Now()

	requestJSON, err := json.Marshal(request)
	if err != nil {
		return RecordedIO{}, fmt.Errorf("failed to marshal request: %w", err)
	}
	responseJSON, err := json.Marshal(response)
	if err != nil {
		return RecordedIO{}, fmt.Errorf("failed to marshal response: %w", err)
	}

	return RecordedIO{
		NodeID:    nodeID,
		Attempt:   attempt,
		Request:   json.RawMessage(requestJSON),
		Response:  json.RawMessage(responseJSON),
		Hash:      hashJSON(responseJSON),
		Timestamp: time.Now(),
		Duration:  time.Since(start),
	}, nil
}

// lookupRecordedIO finds the recording for (nodeID, attempt), letting
// the same node carry distinct recordings across retry attempts.
func lookupRecordedIO(recordings []RecordedIO, nodeID string, attempt int) (RecordedIO, bool) {
	for _, rec := range recordings {
		if rec.NodeID == nodeID && rec.Attempt == attempt {
			return rec, true
		}
	}
	return RecordedIO{}, false
}

// verifyReplayHash reports ErrReplayMismatch if actualResponse's hash
// doesn't match recorded.Hash — a sign the node isn't deterministic
// given the same inputs (unseeded randomness, wall-clock reads, map
// iteration order, drifted external state).
func verifyReplayHash(recorded RecordedIO, actualResponse interface{}) error {
	actualJSON, err := json.Marshal(actualResponse)
	if err != nil {
		return fmt.Errorf("failed to marshal actual response: %w", err)
	}

	actualHash := hashJSON(actualJSON)
	if actualHash != recorded.Hash {
		return fmt.Errorf("%w: expected %s, got %s", ErrReplayMismatch, recorded.Hash, actualHash)
	}
	return nil
}
