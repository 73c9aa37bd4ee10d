package protocol

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Tag identifies a command family. It opens and terminates every frame.
type Tag byte

const (
	TagSet    Tag = 0xB0 // Set measurement setup
	TagGet    Tag = 0xB1 // Get measurement setup
	TagOutput Tag = 0xB2 // Set output configuration
	TagRun    Tag = 0xB4 // Start/stop measurement
)

// MaxPayload is the largest payload a single length byte can describe.
const MaxPayload = 255

// frameOverhead is the tag, length and terminating tag bytes.
const frameOverhead = 3

func (t Tag) String() string {
	switch t {
	case TagSet:
		return "set"
	case TagGet:
		return "get"
	case TagOutput:
		return "output"
	case TagRun:
		return "run"
	default:
		return fmt.Sprintf("0x%02X", byte(t))
	}
}

// Frame is a single wire command: TAG LEN PAYLOAD TAG.
type Frame []byte

// BuildFrame wraps payload into a frame for tag.
func BuildFrame(tag Tag, payload []byte) (Frame, error) {
	if len(payload) > MaxPayload {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrPayloadTooLarge, len(payload), MaxPayload)
	}

	f := make(Frame, 0, len(payload)+frameOverhead)
	f = append(f, byte(tag), byte(len(payload)))
	f = append(f, payload...)
	f = append(f, byte(tag))
	return f, nil
}

// Tag returns the frame's tag.
func (f Frame) Tag() Tag {
	if len(f) == 0 {
		return 0
	}
	return Tag(f[0])
}

// Payload returns the bytes between the length byte and the terminating tag.
func (f Frame) Payload() []byte {
	if len(f) < frameOverhead {
		return nil
	}
	return f[2 : len(f)-1]
}

// String formats the frame as space separated upper case hex, e.g. "B0 01 01 B0".
func (f Frame) String() string {
	return strings.ToUpper(hexSpaced(f))
}

// ParseFrame reads one frame from the head of b and returns it together with the number of
// bytes consumed.
func ParseFrame(b []byte) (Frame, int, error) {
	if len(b) < frameOverhead {
		return nil, 0, fmt.Errorf("%w: need at least %d bytes, got %d", ErrMalformedFrame, frameOverhead, len(b))
	}

	n := int(b[1]) + frameOverhead
	if len(b) < n {
		return nil, 0, fmt.Errorf("%w: truncated, need %d bytes, got %d", ErrMalformedFrame, n, len(b))
	}
	if b[n-1] != b[0] {
		return nil, 0, fmt.Errorf("%w: terminator 0x%02X does not match tag 0x%02X", ErrMalformedFrame, b[n-1], b[0])
	}

	f := make(Frame, n)
	copy(f, b[:n])
	return f, n, nil
}

// SplitFrames splits a byte stream into consecutive frames.
func SplitFrames(b []byte) (Sequence, error) {
	var seq Sequence
	for len(b) > 0 {
		f, n, err := ParseFrame(b)
		if err != nil {
			return seq, fmt.Errorf("frame %d: %w", len(seq), err)
		}
		seq = append(seq, f)
		b = b[n:]
	}
	return seq, nil
}

// Sequence is an ordered list of frames. Order is significant.
type Sequence []Frame

// Bytes concatenates the frames in order.
func (s Sequence) Bytes() []byte {
	size := 0
	for _, f := range s {
		size += len(f)
	}

	out := make([]byte, 0, size)
	for _, f := range s {
		out = append(out, f...)
	}
	return out
}

// Strings formats every frame as hex.
func (s Sequence) Strings() []string {
	out := make([]string, len(s))
	for i, f := range s {
		out[i] = f.String()
	}
	return out
}

func hexSpaced(b []byte) string {
	if len(b) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.Grow(len(b)*3 - 1)
	for i, c := range b {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(hex.EncodeToString([]byte{c}))
	}
	return sb.String()
}
