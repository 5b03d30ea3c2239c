package domain

import "strconv"

// Record is one entry from the record store: an opaque mapping from
// field name to value. The store owns the shape; mapsync only reads it.
// Scalar fields arrive as strings or numbers, attachment fields as an
// ordered array of attachment objects.
type Record map[string]any

// CellValue resolves the record's value for a named field to the scalar
// that goes into a CSV cell. Missing fields resolve to the empty string,
// never an error. Attachment arrays resolve to a single representative
// URL via the thumbnail fallback chain.
func (r Record) CellValue(name string) string {
	raw, ok := r[name]
	if !ok || raw == nil {
		return ""
	}

	if attachments, ok := raw.([]any); ok {
		return attachmentURL(attachments)
	}

	return scalarString(raw)
}

// attachmentURL picks a representative URL from an attachment array.
// Fallback order: first attachment's large thumbnail, then its direct
// url, then empty. The chain is explicit - a missing level is a normal
// outcome, not an error.
func attachmentURL(attachments []any) string {
	if len(attachments) == 0 {
		return ""
	}

	first, ok := attachments[0].(map[string]any)
	if !ok {
		return ""
	}

	if thumbs, ok := first["thumbnails"].(map[string]any); ok {
		if large, ok := thumbs["large"].(map[string]any); ok {
			if u, ok := large["url"].(string); ok && u != "" {
				return u
			}
		}
	}

	if u, ok := first["url"].(string); ok {
		return u
	}

	return ""
}

// scalarString renders a decoded JSON scalar without losing precision.
// encoding/json decodes numbers as float64, so latitude/longitude pass
// through here.
func scalarString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}
