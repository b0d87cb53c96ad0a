package audio

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInspectPCM16Mono(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tone.wav")
	require.NoError(t, os.WriteFile(path, makePCM16WAV(make([]int16, 32000), 16000, 1, nil), 0o644))

	info, err := Inspect(path)
	require.NoError(t, err)
	require.EqualValues(t, formatPCM, info.Format)
	require.EqualValues(t, 1, info.Channels)
	require.EqualValues(t, 16000, info.SampleRate)
	require.EqualValues(t, 16, info.BitsPerSample)
	require.EqualValues(t, 64000, info.DataBytes)
	require.Equal(t, 2*time.Second, info.Duration)
}

func TestInspectSkipsUnknownChunks(t *testing.T) {
	t.Parallel()

	list := append([]byte("LIST"), 0x03, 0, 0, 0, 'a', 'b', 'c', 0)
	path := filepath.Join(t.TempDir(), "with-list.wav")
	require.NoError(t, os.WriteFile(path, makePCM16WAV(make([]int16, 8000), 8000, 2, list), 0o644))

	info, err := Inspect(path)
	require.NoError(t, err)
	require.EqualValues(t, 2, info.Channels)
	require.Equal(t, 500*time.Millisecond, info.Duration)
}

func TestInspectInvalidFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "not-wav.wav")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	_, err := Inspect(path)
	require.ErrorIs(t, err, ErrInvalidWAV)
}

func TestInspectMissingDataChunk(t *testing.T) {
	t.Parallel()

	full := makePCM16WAV(nil, 16000, 1, nil)
	truncated := full[:12+8+16]
	path := filepath.Join(t.TempDir(), "no-data.wav")
	require.NoError(t, os.WriteFile(path, truncated, 0o644))

	_, err := Inspect(path)
	require.ErrorIs(t, err, ErrInvalidWAV)
}

func TestInspectMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Inspect(filepath.Join(t.TempDir(), "missing.wav"))
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidateFormat(t *testing.T) {
	t.Parallel()

	require.NoError(t, validateFormat(formatPCM, 16))
	require.NoError(t, validateFormat(formatIEEEFloat, 32))
	require.ErrorIs(t, validateFormat(formatPCM, 12), ErrUnsupportedWAV)
	require.ErrorIs(t, validateFormat(formatIEEEFloat, 16), ErrUnsupportedWAV)
	require.ErrorIs(t, validateFormat(0x55, 16), ErrUnsupportedWAV)
}

func makePCM16WAV(samples []int16, sampleRate int, channels int, extraChunk []byte) []byte {
	bytesPerSample := 2
	dataSize := len(samples) * bytesPerSample
	fmtChunkSize := 16
	riffSize := 4 + (8 + fmtChunkSize) + len(extraChunk) + (8 + dataSize)

	out := make([]byte, 0, 8+riffSize)
	out = append(out, "RIFF"...)
	out = binary.LittleEndian.AppendUint32(out, uint32(riffSize))
	out = append(out, "WAVE"...)

	out = append(out, "fmt "...)
	out = binary.LittleEndian.AppendUint32(out, uint32(fmtChunkSize))
	out = binary.LittleEndian.AppendUint16(out, formatPCM)
	out = binary.LittleEndian.AppendUint16(out, uint16(channels))
	out = binary.LittleEndian.AppendUint32(out, uint32(sampleRate))
	out = binary.LittleEndian.AppendUint32(out, uint32(sampleRate*channels*bytesPerSample))
	out = binary.LittleEndian.AppendUint16(out, uint16(channels*bytesPerSample))
	out = binary.LittleEndian.AppendUint16(out, 16)

	out = append(out, extraChunk...)

	out = append(out, "data"...)
	out = binary.LittleEndian.AppendUint32(out, uint32(dataSize))
	for _, s := range samples {
		out = binary.LittleEndian.AppendUint16(out, uint16(s))
	}

	return out
}
