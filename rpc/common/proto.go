package common

import (
	"encoding/json"
	"fmt"
)

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message is the single envelope for both requests and responses. Which
// fields are populated depends on the message type.
type Message struct {
	// Type of message
	MsgType MessageType `json:"msg_type"`

	// General request fields
	Key       string   `json:"key,omitempty"`        // Primary key or CAS cell name
	NewKey    string   `json:"new_key,omitempty"`    // Rename target
	ParentKey string   `json:"parent_key,omitempty"` // Rename: parent whose subkey list is rewritten
	Value     string   `json:"value,omitempty"`      // Set/SetAll/queue payload, Get response
	Subkey    string   `json:"subkey,omitempty"`     // RemoveSubkey target
	Subkeys   []string `json:"subkeys,omitempty"`    // SetAll/SetSubkeys request, GetSubkeys response
	Prefix    string   `json:"prefix,omitempty"`     // Queue name
	Pass      string   `json:"pass,omitempty"`       // Passphrase for protected entries
	Expire    uint64   `json:"expire,omitempty"`     // Lifetime in seconds, 0 = none

	// CAS fields
	Cell    []byte `json:"cell,omitempty"`     // CasInit/CasSet new cell, CasGet response
	OldCell []byte `json:"old_cell,omitempty"` // CasSet expected cell
	Width   int    `json:"width,omitempty"`    // CasGet cell width in bytes

	// Flags
	ClearSubkeys bool `json:"clear_subkeys,omitempty"` // Set: drop the subkey list
	CheckAttrs   bool `json:"check_attrs,omitempty"`   // Rename parent check, queue push check
	Recursive    bool `json:"recursive,omitempty"`     // RemoveSubkey: delete the subtree
	Fifo         bool `json:"fifo,omitempty"`          // Queue ordering
	Increment    bool `json:"increment,omitempty"`     // CasIncDec direction

	// Open request fields
	Path               string `json:"path,omitempty"`
	Port               uint16 `json:"port,omitempty"`
	CUK                string `json:"cuk,omitempty"`
	Rejoin             bool   `json:"rejoin,omitempty"`
	RetryRejoinForever bool   `json:"retry_rejoin,omitempty"`
	CleanupOnClose     bool   `json:"cleanup,omitempty"`

	// Response only fields
	Handle  uint64            `json:"handle,omitempty"`  // Open response
	Found   bool              `json:"found,omitempty"`   // Lookup responses
	Attrs   map[string]string `json:"attrs,omitempty"`   // GetAttrs response
	Code    int64             `json:"code,omitempty"`    // Backend response code
	Subcode int64             `json:"subcode,omitempty"` // Backend detail code
	Err     string            `json:"err,omitempty"`     // Empty if no error
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// NewOpenRequest creates a new Open request carrying the connection
// parameters of the client.
func NewOpenRequest(path string, port uint16, cuk string, rejoin, retryForever, cleanup bool) *Message {
	return &Message{
		MsgType:            MsgTOpen,
		Path:               path,
		Port:               port,
		CUK:                cuk,
		Rejoin:             rejoin,
		RetryRejoinForever: retryForever,
		CleanupOnClose:     cleanup,
	}
}

// NewOpenResponse creates a new Open response carrying the server-side
// handle.
func NewOpenResponse(handle uint64, err error) *Message {
	msg := &Message{MsgType: MsgTOpen, Handle: handle}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewCloseRequest creates a new Close request. The handle travels in the
// frame header.
func NewCloseRequest() *Message {
	return &Message{MsgType: MsgTClose}
}

// NewRequest creates a request of the given type. Callers populate the
// operation fields on the returned message.
func NewRequest(t MessageType) *Message {
	return &Message{MsgType: t}
}

// NewResponse creates a response for a completed call, carrying the
// backend response codes. err stays empty for clean misses.
func NewResponse(t MessageType, code, subcode int64, found bool, err error) *Message {
	msg := &Message{
		MsgType: t,
		Code:    code,
		Subcode: subcode,
		Found:   found,
	}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewErrorResponse creates a response for a request the server could not
// process at all (unknown type, decode failure, bad handle).
func NewErrorResponse(err string) *Message {
	return &Message{MsgType: MsgTError, Err: err}
}

// --------------------------------------------------------------------------
// Message Type Definition
// --------------------------------------------------------------------------

// MessageType defines the type of message used in RPC communication.
type MessageType uint8

const (
	MsgTUnknown MessageType = iota
	MsgTError

	// Handle lifecycle

	MsgTOpen
	MsgTClose

	// Key/value operations

	MsgTGet
	MsgTSet
	MsgTSetAll
	MsgTRemove
	MsgTRename

	// Subkey operations

	MsgTGetSubkeys
	MsgTSetSubkeys
	MsgTRemoveSubkey
	MsgTClearSubkeys
	MsgTGetAttrs

	// CAS operations

	MsgTCasInit
	MsgTCasGet
	MsgTCasSet
	MsgTCasIncDec

	// Queue operations

	MsgTQueuePush
	MsgTQueuePop
	MsgTKeyQueuePush
	MsgTKeyQueuePop
)

var msgTypeNames = map[MessageType]string{
	MsgTError:        "error",
	MsgTOpen:         "open",
	MsgTClose:        "close",
	MsgTGet:          "get",
	MsgTSet:          "set",
	MsgTSetAll:       "setall",
	MsgTRemove:       "remove",
	MsgTRename:       "rename",
	MsgTGetSubkeys:   "getsubkeys",
	MsgTSetSubkeys:   "setsubkeys",
	MsgTRemoveSubkey: "removesubkey",
	MsgTClearSubkeys: "clearsubkeys",
	MsgTGetAttrs:     "getattrs",
	MsgTCasInit:      "casinit",
	MsgTCasGet:       "casget",
	MsgTCasSet:       "casset",
	MsgTCasIncDec:    "casincdec",
	MsgTQueuePush:    "queuepush",
	MsgTQueuePop:     "queuepop",
	MsgTKeyQueuePush: "keyqueuepush",
	MsgTKeyQueuePop:  "keyqueuepop",
}

// String returns the string representation of a MessageType.
func (t MessageType) String() string {
	if name, ok := msgTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// MarshalJSON implements the json.Marshaller interface for MessageType.
// This allows MessageType to be serialized as a string in JSON.
func (t MessageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for MessageType.
// This allows MessageType to be deserialized from a string in JSON.
func (t *MessageType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for mt, name := range msgTypeNames {
		if name == s {
			*t = mt
			return nil
		}
	}
	return fmt.Errorf("unknown message type: %s", s)
}
