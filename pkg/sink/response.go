package sink

import (
	"encoding/json"
	"fmt"
	"sort"
)

// BulkResponse is the interpreted reply of one bulk call.
type BulkResponse struct {
	Took   int                `json:"took"`
	Errors bool               `json:"errors"`
	Items  []BulkResponseItem `json:"items"`
}

// BulkResponseItem maps the operation name (index, create, ...) to its result.
type BulkResponseItem map[string]BulkItemResult

// BulkItemResult is the outcome of a single bulk entry.
type BulkItemResult struct {
	Index  string               `json:"_index"`
	Type   string               `json:"_type,omitempty"`
	ID     string               `json:"_id"`
	Status int                  `json:"status"`
	Error  *BulkItemErrorDetail `json:"error,omitempty"`
}

// BulkItemErrorDetail describes why an item failed. Older clusters report the
// error as a bare string, which decodes into Type.
type BulkItemErrorDetail struct {
	Type   string `json:"type"`
	Reason string `json:"reason,omitempty"`
}

// UnmarshalJSON accepts both the string and the object form of an item error.
func (d *BulkItemErrorDetail) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*d = BulkItemErrorDetail{Type: s}
		return nil
	}

	type plain BulkItemErrorDetail
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*d = BulkItemErrorDetail(p)
	return nil
}

// Result returns the single operation result carried by the item. When more
// than one operation key is present the first in lexical order wins.
func (i BulkResponseItem) Result() (string, BulkItemResult, bool) {
	if len(i) == 0 {
		return "", BulkItemResult{}, false
	}

	ops := make([]string, 0, len(i))
	for op := range i {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops[0], i[ops[0]], true
}

// Failed reports whether the item did not persist.
func (r BulkItemResult) Failed() bool {
	return r.Error != nil || r.Status >= 300
}

// Reason returns the error-type descriptor of a failed item.
func (r BulkItemResult) Reason() string {
	if r.Error != nil {
		if r.Error.Type != "" {
			return r.Error.Type
		}
		if r.Error.Reason != "" {
			return r.Error.Reason
		}
	}
	return fmt.Sprintf("status %d", r.Status)
}
