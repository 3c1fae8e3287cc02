package serializer

import (
	"reflect"
	"strings"
	"testing"

	"github.com/kvclabs/dkc/rpc/common"
)

// testSerializers is a map of serializer name to factory function
var testSerializers = map[string]func() IRPCSerializer{
	"JSON": NewJSONSerializer,
	"GOB":  NewGOBSerializer,
}

// testMessages creates a set of test messages with different fields filled
func testMessages() []common.Message {
	return []common.Message{
		// Open request with connection parameters
		*common.NewOpenRequest("cluster.yaml", 8031, "client-1", true, true, true),

		// Set request
		{
			MsgType: common.MsgTSet,
			Key:     "test-key",
			Value:   "test-value",
			Pass:    "secret",
			Expire:  60,
		},

		// Get response with codes
		{
			MsgType: common.MsgTGet,
			Value:   "test-value",
			Found:   true,
			Code:    0,
			Subcode: 0,
		},

		// CAS set request with raw cells
		{
			MsgType: common.MsgTCasSet,
			Key:     "counter",
			OldCell: []byte{0x0A, 0x00, 0x00, 0x00},
			Cell:    []byte{0x2A, 0x00, 0x00, 0x00},
		},

		// Subkeys response
		{
			MsgType: common.MsgTGetSubkeys,
			Subkeys: []string{"a", "b", "c"},
			Found:   true,
		},

		// Attrs response
		{
			MsgType: common.MsgTGetAttrs,
			Attrs:   map[string]string{"protected": "true", "expire": "60"},
			Found:   true,
		},

		// Key queue pop response
		{
			MsgType: common.MsgTKeyQueuePop,
			Key:     "k1",
			Value:   "v1",
			Found:   true,
		},

		// Error response
		*common.NewErrorResponse("test error message"),
	}
}

// TestSerializerRoundTrip tests that messages can be serialized and deserialized correctly
func TestSerializerRoundTrip(t *testing.T) {
	messages := testMessages()

	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			for i, msg := range messages {
				data, err := serializer.Serialize(msg)
				if err != nil {
					t.Errorf("Failed to serialize message %d: %v", i, err)
					continue
				}

				var result common.Message
				err = serializer.Deserialize(data, &result)
				if err != nil {
					t.Errorf("Failed to deserialize message %d: %v", i, err)
					continue
				}

				if !reflect.DeepEqual(msg, result) {
					t.Errorf("Message %d (%s) round trip mismatch:\n  sent: %+v\n  got:  %+v",
						i, msg.MsgType, msg, result)
				}
			}
		})
	}
}

// TestMessageTypeJSON tests the string form of message types in JSON
func TestMessageTypeJSON(t *testing.T) {
	serializer := NewJSONSerializer()

	data, err := serializer.Serialize(common.Message{MsgType: common.MsgTCasIncDec})
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	if want := `"msg_type":"casincdec"`; !strings.Contains(string(data), want) {
		t.Errorf("serialized form %s does not contain %s", data, want)
	}

	var msg common.Message
	if err := serializer.Deserialize([]byte(`{"msg_type":"nonsense"}`), &msg); err == nil {
		t.Errorf("Deserialize() accepted an unknown message type")
	}
}
