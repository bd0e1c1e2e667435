package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// PCMToWAV wraps raw little-endian PCM data in a WAV container.
func PCMToWAV(pcm []byte, sampleRate, channels, bytesPerSample int) []byte {
	dataLen := len(pcm)

	buf := &bytes.Buffer{}
	buf.Grow(44 + dataLen)

	buf.WriteString("RIFF")
	_ = binary.Write(buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	hdr := struct {
		Size          uint32
		Format        uint16
		Channels      uint16
		SampleRate    uint32
		ByteRate      uint32
		BlockAlign    uint16
		BitsPerSample uint16
	}{
		Size:          16,
		Format:        1, // PCM
		Channels:      uint16(channels),
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate * channels * bytesPerSample),
		BlockAlign:    uint16(channels * bytesPerSample),
		BitsPerSample: uint16(bytesPerSample * 8),
	}
	_ = binary.Write(buf, binary.LittleEndian, hdr)

	buf.WriteString("data")
	_ = binary.Write(buf, binary.LittleEndian, uint32(dataLen))
	buf.Write(pcm)

	return buf.Bytes()
}

// Int16ToWAV encodes interleaved 16-bit samples as a WAV file.
func Int16ToWAV(samples []int16, sampleRate, channels int) []byte {
	pcm := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(pcm[2*i:], uint16(s))
	}
	return PCMToWAV(pcm, sampleRate, channels, 2)
}

// WAVInfo is the format of a canonical PCM WAV file.
type WAVInfo struct {
	SampleRate     int
	Channels       int
	BytesPerSample int
	DataLen        int
}

// ParseWAVHeader reads the format of a canonical 44-byte-header PCM WAV file.
func ParseWAVHeader(data []byte) (WAVInfo, error) {
	if len(data) < 44 {
		return WAVInfo{}, errors.New("wav: short header")
	}
	if string(data[:4]) != "RIFF" || string(data[8:12]) != "WAVE" || string(data[12:16]) != "fmt " {
		return WAVInfo{}, errors.New("wav: not a RIFF/WAVE file")
	}
	if format := binary.LittleEndian.Uint16(data[20:22]); format != 1 {
		return WAVInfo{}, fmt.Errorf("wav: unsupported format %d", format)
	}
	if string(data[36:40]) != "data" {
		return WAVInfo{}, errors.New("wav: missing data chunk")
	}
	return WAVInfo{
		Channels:       int(binary.LittleEndian.Uint16(data[22:24])),
		SampleRate:     int(binary.LittleEndian.Uint32(data[24:28])),
		BytesPerSample: int(binary.LittleEndian.Uint16(data[34:36])) / 8,
		DataLen:        int(binary.LittleEndian.Uint32(data[40:44])),
	}, nil
}
