package asr

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ErrNotWAV is returned for input without a RIFF/WAVE header
var ErrNotWAV = errors.New("not a RIFF/WAVE file")

const wavFormatPCM = 1

// WAVFormat describes PCM audio read from a WAV container
type WAVFormat struct {
	Channels      int
	SampleRate    int
	BitsPerSample int
	BlockAlign    int
}

func newWAVFormat(f *audio.Format, bitDepth int) WAVFormat {
	return WAVFormat{
		Channels:      f.NumChannels,
		SampleRate:    f.SampleRate,
		BitsPerSample: bitDepth,
		BlockAlign:    f.NumChannels * bitDepth / 8,
	}
}

// BytesPerMs returns the PCM byte count of one millisecond of audio
func (f WAVFormat) BytesPerMs() int {
	n := f.SampleRate * f.BlockAlign / 1000
	if n < f.BlockAlign {
		return f.BlockAlign
	}
	return n - n%f.BlockAlign
}

// ReadWAV decodes a 16-bit PCM WAV and returns its format and the
// little-endian sample bytes Vosk expects.
func ReadWAV(r io.ReadSeeker) (WAVFormat, []byte, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return WAVFormat{}, nil, ErrNotWAV
	}
	if d.WavAudioFormat != wavFormatPCM {
		return WAVFormat{}, nil, fmt.Errorf("wav: unsupported encoding %d (want PCM)", d.WavAudioFormat)
	}
	if d.BitDepth != 16 {
		return WAVFormat{}, nil, fmt.Errorf("wav: unsupported bit depth %d (want 16)", d.BitDepth)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return WAVFormat{}, nil, fmt.Errorf("wav: read data: %w", err)
	}

	return newWAVFormat(d.Format(), int(d.BitDepth)), pcm16(buf.Data), nil
}

// pcm16 packs samples as signed 16-bit little-endian
func pcm16(samples []int) []byte {
	out := make([]byte, 2*len(samples))
	for i, v := range samples {
		s := uint16(int16(v))
		out[2*i] = byte(s)
		out[2*i+1] = byte(s >> 8)
	}
	return out
}

// chunkPCM splits pcm into pieces of at most size bytes
func chunkPCM(pcm []byte, size int) [][]byte {
	if size <= 0 {
		size = len(pcm)
	}
	var chunks [][]byte
	for start := 0; start < len(pcm); start += size {
		end := start + size
		if end > len(pcm) {
			end = len(pcm)
		}
		chunks = append(chunks, pcm[start:end])
	}
	return chunks
}
