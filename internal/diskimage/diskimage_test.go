package diskimage

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectRawSector(t *testing.T) {
	data := make([]byte, rawSectorSize)
	info, err := Detect("disk.dsk", data)
	require.NoError(t, err)
	require.Equal(t, FormatRawSector, info.Format)
	require.Equal(t, rawSectorSize/512, info.BlockCount)
}

func TestDetectProDOSOrderByExtension(t *testing.T) {
	data := make([]byte, rawSectorSize)
	info, err := Detect("disk.po", data)
	require.NoError(t, err)
	require.Equal(t, FormatProDOSOrder, info.Format)
}

func TestDetectNibble(t *testing.T) {
	data := make([]byte, nibbleSize)
	info, err := Detect("disk.nib", data)
	require.NoError(t, err)
	require.Equal(t, FormatNibble, info.Format)
}

func TestDetectWOZMagic(t *testing.T) {
	data := make([]byte, 12)
	copy(data, wozMagic2)
	info, err := Detect("disk.woz", data)
	require.NoError(t, err)
	require.Equal(t, FormatWOZ, info.Format)
}

func TestDetect2IMGHeader(t *testing.T) {
	data := make([]byte, img2HeaderLen+5)
	copy(data, img2Magic)
	binary.LittleEndian.PutUint32(data[img2FlagsOffset:], img2LockedBit)
	binary.LittleEndian.PutUint32(data[img2BlockCountOffset:], 280)
	binary.LittleEndian.PutUint32(data[img2CommentOffOffset:], img2HeaderLen)
	binary.LittleEndian.PutUint32(data[img2CommentLenOffset:], 5)
	copy(data[img2HeaderLen:], "hello")

	info, err := Detect("disk.2mg", data)
	require.NoError(t, err)
	require.Equal(t, Format2IMG, info.Format)
	require.Equal(t, 280, info.BlockCount)
	require.True(t, info.ReadOnly)
	require.Equal(t, "hello", info.Comment)
}

func TestDetectUnrecognized(t *testing.T) {
	_, err := Detect("garbage.bin", make([]byte, 100))
	require.Error(t, err)
}
