package domain

import (
	"encoding/json"
	"fmt"
)

// SessionKeyPrefix is the namespace under which session records are stored (key: session:{session_id}).
const SessionKeyPrefix = "session"

// Session is the record the router trusts for routing decisions.
// It is written by the provisioning system; the router only refreshes LastActive.
type Session struct {
	SessionID     string // session identifier from the request path
	ContainerName string // hostname of the backend container
	LastActive    int64  // epoch milliseconds, advisory

	// extra keeps fields owned by the provisioning system so that a touch
	// writes them back untouched.
	extra map[string]json.RawMessage
}

const (
	fieldSessionID     = "sessionId"
	fieldContainerName = "containerName"
	fieldLastActive    = "lastActive"
)

// MarshalJSON writes the known fields plus any unknown fields read by UnmarshalJSON.
func (s Session) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.extra)+3)
	for k, v := range s.extra {
		out[k] = v
	}
	if s.SessionID != "" {
		out[fieldSessionID] = s.SessionID
	}
	out[fieldContainerName] = s.ContainerName
	out[fieldLastActive] = s.LastActive
	return json.Marshal(out)
}

// UnmarshalJSON reads the known fields and retains the rest verbatim.
func (s *Session) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("session record is null")
	}

	var out Session
	if v, ok := raw[fieldSessionID]; ok {
		if err := json.Unmarshal(v, &out.SessionID); err != nil {
			return fmt.Errorf("invalid %s: %w", fieldSessionID, err)
		}
		delete(raw, fieldSessionID)
	}
	if v, ok := raw[fieldContainerName]; ok {
		if err := json.Unmarshal(v, &out.ContainerName); err != nil {
			return fmt.Errorf("invalid %s: %w", fieldContainerName, err)
		}
		delete(raw, fieldContainerName)
	}
	if v, ok := raw[fieldLastActive]; ok && string(v) != "null" {
		var ms json.Number
		if err := json.Unmarshal(v, &ms); err != nil {
			return fmt.Errorf("invalid %s: %w", fieldLastActive, err)
		}
		// Records written by JS clients may carry a float; truncate to whole milliseconds.
		if n, err := ms.Int64(); err == nil {
			out.LastActive = n
		} else if f, ferr := ms.Float64(); ferr == nil {
			out.LastActive = int64(f)
		} else {
			return fmt.Errorf("invalid %s: %w", fieldLastActive, err)
		}
	}
	delete(raw, fieldLastActive)
	if len(raw) > 0 {
		out.extra = raw
	}

	*s = out
	return nil
}
