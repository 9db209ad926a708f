package audio

import (
	"bytes"
	"io"
	"testing"

	"github.com/go-audio/wav"
)

func TestEncodeWAVRoundTrip(t *testing.T) {
	samples := []int16{0, 100, -100, 32767, -32768, 0}
	payload, err := EncodeWAV(samples, 16000, 1)
	if err != nil {
		t.Fatalf("EncodeWAV() error = %v", err)
	}

	if !bytes.HasPrefix(payload, []byte("RIFF")) {
		t.Fatal("payload does not start with a RIFF header")
	}

	dec := wav.NewDecoder(bytes.NewReader(payload))
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("decoding payload: %v", err)
	}
	if dec.SampleRate != 16000 {
		t.Errorf("SampleRate = %d, want 16000", dec.SampleRate)
	}
	if dec.NumChans != 1 {
		t.Errorf("NumChans = %d, want 1", dec.NumChans)
	}
	if dec.BitDepth != 16 {
		t.Errorf("BitDepth = %d, want 16", dec.BitDepth)
	}
	if len(buf.Data) != len(samples) {
		t.Fatalf("decoded %d samples, want %d", len(buf.Data), len(samples))
	}
	for i, want := range samples {
		if buf.Data[i] != int(want) {
			t.Errorf("sample[%d] = %d, want %d", i, buf.Data[i], want)
		}
	}
}

func TestSeekBuffer(t *testing.T) {
	b := &seekBuffer{}
	if _, err := b.Write([]byte("abcdef")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, err := b.Seek(1, io.SeekStart); err != nil {
		t.Fatalf("Seek() error = %v", err)
	}
	if _, err := b.Write([]byte("XY")); err != nil {
		t.Fatalf("Write() after seek error = %v", err)
	}
	if got := string(b.Bytes()); got != "aXYdef" {
		t.Errorf("Bytes() = %q, want %q", got, "aXYdef")
	}

	if _, err := b.Seek(-2, io.SeekEnd); err != nil {
		t.Fatalf("SeekEnd error = %v", err)
	}
	if _, err := b.Write([]byte("ZZZ")); err != nil {
		t.Fatalf("Write() past end error = %v", err)
	}
	if got := string(b.Bytes()); got != "aXYdZZZ" {
		t.Errorf("Bytes() = %q, want %q", got, "aXYdZZZ")
	}

	if _, err := b.Seek(-100, io.SeekStart); err == nil {
		t.Error("Seek() before start succeeded, want error")
	}
}
