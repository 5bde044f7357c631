package persist_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kestrelfx/fxstore/errs"
	"github.com/kestrelfx/fxstore/persist"
)

func TestHeaderEncodeDecodeRoundTrip(t *testing.T) {
	h := persist.Header{
		Version:     1,
		SymbolCount: 12,
		BlockCount:  4096,
		IndexOffset: 40,
		DataOffset:  8192,
	}

	buf := make([]byte, persist.HeaderSize)
	persist.EncodeHeader(h, buf)

	require.Equal(t, persist.Magic, string(buf[0:8]))

	got, err := persist.DecodeHeader(buf)
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestDecodeHeaderRejectsBadMagic(t *testing.T) {
	buf := make([]byte, persist.HeaderSize)
	copy(buf, "NOTVALID")

	_, err := persist.DecodeHeader(buf)
	require.Error(t, err)
}

func TestDecodeHeaderRejectsShortBuffer(t *testing.T) {
	_, err := persist.DecodeHeader(make([]byte, 4))
	require.Error(t, err)
}

func TestCreateAndOpenAreNotImplemented(t *testing.T) {
	err := persist.Create("/tmp/fxstore.mmap", persist.Header{})
	require.ErrorIs(t, err, errs.ErrNotImplemented)

	_, err = persist.Open("/tmp/fxstore.mmap")
	require.ErrorIs(t, err, errs.ErrNotImplemented)
}
