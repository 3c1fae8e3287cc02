package provider

import (
	"fmt"

	"github.com/kvclabs/dkc/lib/codec"
)

// --------------------------------------------------------------------------
// Handles
// --------------------------------------------------------------------------

// Handle identifies one live connection to the cluster control process.
// A valid handle is always positive; InvalidHandle marks the unopened and
// closed states.
type Handle uint64

// InvalidHandle is the zero handle. It is never issued by a provider.
const InvalidHandle Handle = 0

// OpenOptions carries the connection parameters for Provider.Open. The
// fields mirror the cluster configuration a session is derived from.
type OpenOptions struct {
	// Path of the cluster topology resource
	Path string
	// Control port of the membership process
	Port uint16
	// CUK is the cluster unique key identifying this client's membership
	CUK string
	// Rejoin requests an automatic rejoin after a lost membership
	Rejoin bool
	// RetryRejoinForever keeps retrying the rejoin without bound
	RetryRejoinForever bool
	// CleanupOnClose removes membership resources when the handle closes
	CleanupOnClose bool
}

// --------------------------------------------------------------------------
// Response Codes
// --------------------------------------------------------------------------

// ResCode is the primary response code the cluster reports for the most
// recent call on a handle.
type ResCode int64

const (
	ResSuccess ResCode = iota // 0: call completed
	ResError                  // 1: call failed
)

// ResSubcode is the secondary response code detailing the primary one.
type ResSubcode int64

const (
	SubNothing     ResSubcode = iota // 0: no further detail
	SubNotFound                      // 1: key, cell or queue element absent
	SubCasMismatch                   // 2: CAS cell did not match the expected value
	SubBadPass                       // 3: passphrase rejected
	SubBadWidth                      // 4: CAS cell width mismatch
	SubInternal                      // 5: internal store error
)

func (c ResCode) String() string {
	switch c {
	case ResSuccess:
		return "success"
	case ResError:
		return "error"
	default:
		return "unknown"
	}
}

func (c ResSubcode) String() string {
	switch c {
	case SubNothing:
		return "nothing"
	case SubNotFound:
		return "not found"
	case SubCasMismatch:
		return "cas mismatch"
	case SubBadPass:
		return "bad passphrase"
	case SubBadWidth:
		return "bad cell width"
	case SubInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// --------------------------------------------------------------------------
// Provider Interface
// --------------------------------------------------------------------------

// Provider is the operation surface of the cluster control process. It is
// the seam between the command layer and whatever actually stores the data:
// the in-process store (provider/memory) or a remote server spoken to over
// the rpc wire protocol (provider/remote).
//
// Every operation takes the handle it runs on. After each call the provider
// records the response code and subcode for that handle; ResCode and
// ResSubcode return them until the next call on the same handle. Callers
// that need the codes must read them before reusing the handle.
//
// Operations return *Error values: RetCOperationFailed for a call the
// cluster rejected (the response codes carry the detail), RetCConnection
// for transport failures. Absence of data is not an error; lookups report
// it through their found return value.
//
// A Provider is safe for concurrent use. Calls on one handle are not
// ordered with respect to each other beyond what the implementation's
// transport serializes; callers that require ordering must serialize
// themselves.
type Provider interface {
	// Open connects to the cluster and returns a new valid handle.
	Open(opts OpenOptions) (Handle, error)
	// Close releases a handle. Closing an already closed handle is an error
	// but must never corrupt provider state.
	Close(h Handle) error

	// Get fetches the value stored under key.
	Get(h Handle, key, pass string) (value string, found bool, err error)
	// Set stores value under key, optionally dropping the subkey list.
	Set(h Handle, key, value string, clearSubkeys bool, pass string, expire uint64) error
	// SetAll stores value and replaces the full subkey list in one call.
	SetAll(h Handle, key, value string, subkeys []string, pass string, expire uint64) error
	// Remove deletes key.
	Remove(h Handle, key string) error
	// Rename moves key to newKey. If parentKey is non-empty the reference in
	// the parent's subkey list is updated as well.
	Rename(h Handle, key, newKey, parentKey string, checkParentAttrs bool, pass string, expire uint64) error

	// GetSubkeys lists the direct subkeys of key in stored order.
	GetSubkeys(h Handle, key string) (subkeys []string, found bool, err error)
	// SetSubkeys replaces the full subkey list of key.
	SetSubkeys(h Handle, key string, subkeys []string) error
	// RemoveSubkey detaches subkey from key and deletes the subkey's own
	// entry; recursive also deletes the subkey's descendants.
	RemoveSubkey(h Handle, key, subkey string, recursive bool) error
	// ClearSubkeys removes all direct subkeys of key recursively.
	ClearSubkeys(h Handle, key string) error
	// GetAttrs fetches the attribute map of key.
	GetAttrs(h Handle, key string) (attrs map[string]string, found bool, err error)

	// CasInit initializes a CAS cell with the packed value.
	CasInit(h Handle, key string, value []byte, pass string, expire uint64) error
	// CasGet reads a CAS cell of the given width.
	CasGet(h Handle, key string, t codec.DataType, pass string) (value []byte, found bool, err error)
	// CasSet swaps the cell to newval only if it currently equals oldval.
	CasSet(h Handle, key string, oldval, newval []byte, pass string, expire uint64) error
	// CasIncDec atomically increments (or decrements) a CAS cell by one.
	CasIncDec(h Handle, key string, increment bool, pass string, expire uint64) error

	// QueuePush appends value to the queue with the given prefix.
	QueuePush(h Handle, prefix, value string, fifo, checkAttrs bool, pass string, expire uint64) error
	// QueuePop removes one element; fifo selects the ordering discipline.
	QueuePop(h Handle, prefix string, fifo bool, pass string) (value string, found bool, err error)
	// KeyQueuePush appends a key-value pair to a key queue.
	KeyQueuePush(h Handle, prefix, key, value string, fifo, checkAttrs bool, pass string, expire uint64) error
	// KeyQueuePop removes one key-value pair from a key queue.
	KeyQueuePop(h Handle, prefix string, fifo bool, pass string) (key, value string, found bool, err error)

	// ResCode reports the primary response code of the last call on h.
	ResCode(h Handle) ResCode
	// ResSubcode reports the secondary response code of the last call on h.
	ResSubcode(h Handle) ResSubcode
}

// LogLevelSetter is implemented by providers that can forward log severity
// configuration to their backing stack. The cluster facade uses it as a
// pass-through; providers without log control simply don't implement it.
type LogLevelSetter interface {
	SetLogLevel(stack string, severity string)
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// RetCode classifies provider and command layer failures.
type RetCode uint64

const (
	RetCSuccess         RetCode = iota // 0: no error
	RetCInvalidArgument                // 1: malformed input, detected before any I/O
	RetCConnection                     // 2: connect or transport failure
	RetCOperationFailed                // 3: the cluster rejected the call
	RetCClosedSession                  // 4: call on a closed or never-opened session
)

// Error is the error type shared by the provider and command layers. It
// wraps a RetCode so callers can branch on the failure class instead of
// string matching.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message
}

// Error implements the error interface.
func (e *Error) Error() string {
	code := ""
	switch e.Code {
	case RetCInvalidArgument:
		code = "InvalidArgument"
	case RetCConnection:
		code = "Connection"
	case RetCOperationFailed:
		code = "OperationFailed"
	case RetCClosedSession:
		code = "ClosedSession"
	default:
		code = "Unknown"
	}
	return fmt.Sprintf("dkc error (code %s): %s", code, e.Msg)
}

// NewError creates a new Error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// CodeOf extracts the RetCode from an error. Errors that are not *Error
// report RetCOperationFailed; nil reports RetCSuccess.
func CodeOf(err error) RetCode {
	if err == nil {
		return RetCSuccess
	}
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return RetCOperationFailed
}
