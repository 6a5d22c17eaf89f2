package task

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"time"

	domtask "github.com/taskhive/taskhive/internal/domain/task"
)

// Hash field names for the per-task hash.
const (
	fieldTitle       = "title"
	fieldDescription = "description"
	fieldTags        = "tags"
	fieldStatus      = "status"
	fieldSeverity    = "severity"
	fieldCreatedBy   = "created_by"
	fieldAssignedTo  = "assigned_to"
	fieldCreatedAt   = "created_at"
	fieldUpdatedAt   = "updated_at"
	fieldEmbedding   = "embedding"
)

// buildHashFields converts a domain Task into a flat map[string]string for HSET.
// The embedding field is omitted entirely when absent, so "has embedding"
// round-trips as hash-field presence.
func buildHashFields(t *domtask.Task) map[string]string {
	m := map[string]string{
		fieldTitle:       t.Title(),
		fieldDescription: t.Description(),
		fieldTags:        encodeTags(t.Tags()),
		fieldStatus:      string(t.Status()),
		fieldSeverity:    string(t.Severity()),
		fieldCreatedBy:   t.CreatedBy(),
		fieldAssignedTo:  t.AssignedTo(),
		fieldCreatedAt:   t.CreatedAt().UTC().Format(time.RFC3339Nano),
		fieldUpdatedAt:   t.UpdatedAt().UTC().Format(time.RFC3339Nano),
	}
	if t.HasEmbedding() {
		m[fieldEmbedding] = vectorToBytes(t.Embedding())
	}
	return m
}

// parseHashFields converts a flat hash map back into a domain Task.
func parseHashFields(id string, m map[string]string) domtask.Task {
	createdAt, _ := time.Parse(time.RFC3339Nano, m[fieldCreatedAt])
	updatedAt, _ := time.Parse(time.RFC3339Nano, m[fieldUpdatedAt])

	var embedding []float32
	if raw, ok := m[fieldEmbedding]; ok {
		embedding = bytesToVector(raw)
	}

	return domtask.Reconstruct(
		id,
		m[fieldTitle],
		m[fieldDescription],
		decodeTags(m[fieldTags]),
		domtask.Status(m[fieldStatus]),
		domtask.Severity(m[fieldSeverity]),
		m[fieldCreatedBy],
		m[fieldAssignedTo],
		createdAt,
		updatedAt,
		embedding,
	)
}

func encodeTags(tags []string) string {
	if len(tags) == 0 {
		return "[]"
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func decodeTags(raw string) []string {
	if raw == "" || raw == "[]" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil
	}
	return tags
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

// bytesToVector deserializes a binary string back to []float32.
func bytesToVector(s string) []float32 {
	b := []byte(s)
	if len(b) == 0 || len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
