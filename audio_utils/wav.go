package audio_utils

import "encoding/binary"

// The speech synthesizer returns raw little-endian 16-bit mono PCM at a
// fixed 24 kHz. These values are a contract with that service, not
// negotiated per request.
const (
	SampleRate    = 24000
	ChannelCount  = 1
	BitsPerSample = 16

	headerSize = 44
)

// EncodeWAV wraps raw PCM sample bytes in a minimal RIFF/WAVE container.
// Pure byte-to-byte transformation with no error conditions; an empty
// input still yields a valid 44-byte header-only container. Output length
// is always 44 + len(pcm).
func EncodeWAV(pcm []byte) []byte {
	dataSize := uint32(len(pcm))
	byteRate := uint32(SampleRate * ChannelCount * BitsPerSample / 8)
	blockAlign := uint16(ChannelCount * BitsPerSample / 8)

	out := make([]byte, headerSize+len(pcm))

	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], 36+dataSize)
	copy(out[8:12], "WAVE")

	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16)
	binary.LittleEndian.PutUint16(out[20:22], 1) // uncompressed PCM
	binary.LittleEndian.PutUint16(out[22:24], ChannelCount)
	binary.LittleEndian.PutUint32(out[24:28], SampleRate)
	binary.LittleEndian.PutUint32(out[28:32], byteRate)
	binary.LittleEndian.PutUint16(out[32:34], blockAlign)
	binary.LittleEndian.PutUint16(out[34:36], BitsPerSample)

	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], dataSize)
	copy(out[headerSize:], pcm)

	return out
}
