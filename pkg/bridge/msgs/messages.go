package msgs

import "github.com/golang/protobuf/proto"

// Message type IDs
const (
	SendDataTypeID       = TypeIDKindCommand | 0x0001
	PacketEventTypeID    = TypeIDKindEvent | 0x0001
	LinkStateEventTypeID = TypeIDKindEvent | 0x0002
	SendErrTypeID        = TypeIDKindEvent | 0x0003
)

// The message structs are maintained by hand in sync with
// bridge.proto, which keeps protoc out of the build. Field numbers
// must never be reused.

// SendData requests raw bytes to be written to the device.
type SendData struct {
	Data []byte `protobuf:"bytes,1,opt,name=data,proto3" json:"data,omitempty"`
}

// Reset implements proto.Message.
func (m *SendData) Reset() { *m = SendData{} }

// String implements proto.Message.
func (m *SendData) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*SendData) ProtoMessage() {}

// NewMessage implements Message.
func (m *SendData) NewMessage() Message { return &SendData{} }

// TypeID implements SerializableMessage.
func (m *SendData) TypeID() uint32 { return SendDataTypeID }

// Serializable implements SerializableMessage.
func (m *SendData) Serializable() proto.Message { return m }

// PacketEvent reports one framed packet received from the device.
type PacketEvent struct {
	ConnId string `protobuf:"bytes,1,opt,name=conn_id,json=connId,proto3" json:"conn_id,omitempty"`
	Source string `protobuf:"bytes,2,opt,name=source,proto3" json:"source,omitempty"`
	Data   []byte `protobuf:"bytes,3,opt,name=data,proto3" json:"data,omitempty"`
}

// Reset implements proto.Message.
func (m *PacketEvent) Reset() { *m = PacketEvent{} }

// String implements proto.Message.
func (m *PacketEvent) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*PacketEvent) ProtoMessage() {}

// NewMessage implements Message.
func (m *PacketEvent) NewMessage() Message { return &PacketEvent{} }

// TypeID implements SerializableMessage.
func (m *PacketEvent) TypeID() uint32 { return PacketEventTypeID }

// Serializable implements SerializableMessage.
func (m *PacketEvent) Serializable() proto.Message { return m }

// LinkStateEvent reports a lifecycle change of the link. State carries
// the numeric link.State value.
type LinkStateEvent struct {
	ConnId string `protobuf:"bytes,1,opt,name=conn_id,json=connId,proto3" json:"conn_id,omitempty"`
	Port   string `protobuf:"bytes,2,opt,name=port,proto3" json:"port,omitempty"`
	State  int32  `protobuf:"varint,3,opt,name=state,proto3" json:"state,omitempty"`
}

// Reset implements proto.Message.
func (m *LinkStateEvent) Reset() { *m = LinkStateEvent{} }

// String implements proto.Message.
func (m *LinkStateEvent) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*LinkStateEvent) ProtoMessage() {}

// NewMessage implements Message.
func (m *LinkStateEvent) NewMessage() Message { return &LinkStateEvent{} }

// TypeID implements SerializableMessage.
func (m *LinkStateEvent) TypeID() uint32 { return LinkStateEventTypeID }

// Serializable implements SerializableMessage.
func (m *LinkStateEvent) Serializable() proto.Message { return m }

// SendErr reports a failed SendData.
type SendErr struct {
	Message string `protobuf:"bytes,1,opt,name=message,proto3" json:"message,omitempty"`
}

// NewSendErr creates SendErr from an error.
func NewSendErr(err error) *SendErr {
	return &SendErr{Message: err.Error()}
}

// Reset implements proto.Message.
func (m *SendErr) Reset() { *m = SendErr{} }

// String implements proto.Message.
func (m *SendErr) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*SendErr) ProtoMessage() {}

// NewMessage implements Message.
func (m *SendErr) NewMessage() Message { return &SendErr{} }

// TypeID implements SerializableMessage.
func (m *SendErr) TypeID() uint32 { return SendErrTypeID }

// Serializable implements SerializableMessage.
func (m *SendErr) Serializable() proto.Message { return m }
