// Package audio reads WAV container headers. It never decodes samples; the
// transcription engine owns decoding.
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

var (
	ErrUnsupportedWAV = errors.New("unsupported wav format")
	ErrInvalidWAV     = errors.New("invalid wav file")
)

const (
	formatPCM        = 1
	formatIEEEFloat  = 3
	formatExtensible = 0xFFFE
)

// Info describes the stream stored in a WAV file.
type Info struct {
	Format        uint16
	Channels      uint16
	SampleRate    uint32
	BitsPerSample uint16
	DataBytes     uint32
	Duration      time.Duration
}

// Inspect walks the RIFF chunks of path and returns the fmt and data chunk
// metadata. Sample data is skipped, not read.
func Inspect(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	return inspect(f)
}

func inspect(r io.ReadSeeker) (Info, error) {
	header := make([]byte, 12)
	if _, err := io.ReadFull(r, header); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Info{}, fmt.Errorf("%w: %v", ErrInvalidWAV, err)
		}
		return Info{}, fmt.Errorf("read wav header: %w", err)
	}

	if string(header[:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return Info{}, ErrInvalidWAV
	}

	var (
		info     Info
		byteRate uint32
		hasFmt   bool
		hasData  bool
	)

	chunkHeader := make([]byte, 8)
	for !(hasFmt && hasData) {
		if _, err := io.ReadFull(r, chunkHeader); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return Info{}, fmt.Errorf("read wav chunk header: %w", err)
		}

		chunkID := string(chunkHeader[:4])
		chunkSize := binary.LittleEndian.Uint32(chunkHeader[4:8])
		skip := int64(chunkSize)
		if chunkSize%2 != 0 {
			skip++
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return Info{}, ErrInvalidWAV
			}

			buf := make([]byte, chunkSize)
			if _, err := io.ReadFull(r, buf); err != nil {
				return Info{}, fmt.Errorf("read wav fmt chunk: %w", err)
			}

			info.Format = binary.LittleEndian.Uint16(buf[0:2])
			info.Channels = binary.LittleEndian.Uint16(buf[2:4])
			info.SampleRate = binary.LittleEndian.Uint32(buf[4:8])
			byteRate = binary.LittleEndian.Uint32(buf[8:12])
			info.BitsPerSample = binary.LittleEndian.Uint16(buf[14:16])
			if info.Format == formatExtensible && chunkSize >= 26 {
				// first two bytes of the sub-format GUID carry the real format tag
				info.Format = binary.LittleEndian.Uint16(buf[24:26])
			}
			hasFmt = true

			if chunkSize%2 != 0 {
				if _, err := r.Seek(1, io.SeekCurrent); err != nil {
					return Info{}, fmt.Errorf("seek wav fmt padding: %w", err)
				}
			}
		case "data":
			info.DataBytes = chunkSize
			hasData = true
			if _, err := r.Seek(skip, io.SeekCurrent); err != nil {
				return Info{}, fmt.Errorf("seek wav data chunk: %w", err)
			}
		default:
			if _, err := r.Seek(skip, io.SeekCurrent); err != nil {
				return Info{}, fmt.Errorf("seek wav chunk %s: %w", chunkID, err)
			}
		}
	}

	if !hasFmt || !hasData {
		return Info{}, ErrInvalidWAV
	}

	if err := validateFormat(info.Format, info.BitsPerSample); err != nil {
		return Info{}, err
	}

	if byteRate == 0 {
		byteRate = info.SampleRate * uint32(info.Channels) * uint32(info.BitsPerSample/8)
	}
	if byteRate > 0 {
		info.Duration = time.Duration(float64(info.DataBytes) / float64(byteRate) * float64(time.Second))
	}

	return info, nil
}

func validateFormat(audioFormat, bitsPerSample uint16) error {
	switch audioFormat {
	case formatPCM:
		switch bitsPerSample {
		case 8, 16, 24, 32:
			return nil
		}
	case formatIEEEFloat:
		switch bitsPerSample {
		case 32, 64:
			return nil
		}
	}
	return ErrUnsupportedWAV
}
