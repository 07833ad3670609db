package speech

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

const (
	MaxDurationSeconds = 60              // 1 minute maximum
	MaxFileSize        = 5 * 1024 * 1024 // 5MB (conservative buffer)
	AllowedExtension   = ".wav"

	pcmFormat = 1
)

var ErrInvalidAudio = errors.New("invalid audio")

type waveHeader struct {
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	DataOffset    int
	DataSize      uint32
}

// parseWaveHeader reads the RIFF/WAVE container: the fmt chunk fields and
// the location of the data chunk. Unknown chunks are skipped.
func parseWaveHeader(data []byte) (*waveHeader, error) {
	if len(data) < 44 {
		return nil, fmt.Errorf("%w: WAV header too short", ErrInvalidAudio)
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("%w: not a RIFF/WAVE file", ErrInvalidAudio)
	}

	var header waveHeader
	haveFmt := false
	offset := 12
	for offset+8 <= len(data) {
		tag := string(data[offset : offset+4])
		size := binary.LittleEndian.Uint32(data[offset+4 : offset+8])
		body := offset + 8

		switch tag {
		case "fmt ":
			if size < 16 || body+16 > len(data) {
				return nil, fmt.Errorf("%w: truncated fmt chunk", ErrInvalidAudio)
			}
			buf := bytes.NewReader(data[body : body+16])
			fields := []any{&header.AudioFormat, &header.NumChannels, &header.SampleRate,
				&header.ByteRate, &header.BlockAlign, &header.BitsPerSample}
			for _, f := range fields {
				if err := binary.Read(buf, binary.LittleEndian, f); err != nil {
					return nil, err
				}
			}
			haveFmt = true
		case "data":
			if !haveFmt {
				return nil, fmt.Errorf("%w: data chunk before fmt chunk", ErrInvalidAudio)
			}
			header.DataOffset = body
			header.DataSize = size
			if end := body + int(size); end > len(data) || end < body {
				header.DataSize = uint32(len(data) - body)
			}
			return &header, nil
		}

		// chunks are word aligned
		offset = body + int(size) + int(size%2)
		if offset < body {
			break
		}
	}
	return nil, fmt.Errorf("%w: no data chunk", ErrInvalidAudio)
}

func (h *waveHeader) isRecognizerReady() bool {
	return h.AudioFormat == pcmFormat && h.NumChannels == 1 && h.SampleRate == sampleRateHertz && h.BitsPerSample == 16
}

func (h *waveHeader) durationSeconds() float64 {
	if h.ByteRate == 0 {
		return 0
	}
	return float64(h.DataSize) / float64(h.ByteRate)
}

// PrepareAudio validates an uploaded WAV file and returns raw 16 kHz mono
// LINEAR16 samples, converting with ffmpeg when the upload is in another
// PCM layout.
func PrepareAudio(data []byte) ([]byte, error) {
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidAudio, MaxFileSize)
	}
	header, err := parseWaveHeader(data)
	if err != nil {
		return nil, err
	}
	if d := header.durationSeconds(); d > MaxDurationSeconds {
		return nil, fmt.Errorf("%w: %.0fs exceeds the %ds limit", ErrInvalidAudio, d, MaxDurationSeconds)
	}
	if header.isRecognizerReady() {
		return samples(data, header), nil
	}

	converted, err := convertWithFFmpeg(data)
	if err != nil {
		return nil, err
	}
	header, err = parseWaveHeader(converted)
	if err != nil {
		return nil, fmt.Errorf("converted audio: %w", err)
	}
	return samples(converted, header), nil
}

func samples(data []byte, h *waveHeader) []byte {
	return data[h.DataOffset : h.DataOffset+int(h.DataSize)]
}

func convertWithFFmpeg(data []byte) ([]byte, error) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, fmt.Errorf("ffmpeg not found in system PATH: %v", err)
	}

	tempInput, err := os.CreateTemp("", "audio-*.wav")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tempInput.Name())
	defer tempInput.Close()
	if _, err := tempInput.Write(data); err != nil {
		return nil, fmt.Errorf("failed to save audio file: %w", err)
	}

	tempOutput, err := os.CreateTemp("", "converted-*.wav")
	if err != nil {
		return nil, fmt.Errorf("failed to create output temp file: %w", err)
	}
	defer os.Remove(tempOutput.Name())
	tempOutput.Close()

	cmd := exec.Command("ffmpeg",
		"-y",
		"-i", tempInput.Name(),
		"-acodec", "pcm_s16le",
		"-ac", "1",
		"-ar", "16000",
		tempOutput.Name(),
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: ffmpeg conversion failed: %s", ErrInvalidAudio, stderr.String())
	}
	return os.ReadFile(tempOutput.Name())
}
