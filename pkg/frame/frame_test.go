package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fenwick-audio/sampler-core/pkg/codec"
)

func allBuilders() map[string][]byte {
	return map[string][]byte{
		"RequestStatus":              RequestStatus(),
		"RequestResidentProgramNames": RequestResidentProgramNames(),
		"RequestProgramData":         RequestProgramData(5),
		"InstallProgramData":         InstallProgramData(5, make([]byte, akaiHeaderSize)),
		"DeleteProgram":              DeleteProgram(5),
		"ChangeMiscData":             ChangeMiscData(MiscFields{1, 0, 1, 2, 0, 3}),
		"SetExclusiveChannel":        SetExclusiveChannel(3),
		"CommandReply":               CommandReply(true),
		"RequestProgramHeader":       RequestProgramHeader(5),
		"ChangeProgramHeader":        ChangeProgramHeader(5, 7, []byte{42}),
		"RequestVolumeListItem":      RequestVolumeListItem(3),
		"RequestHardDiskDirectoryEntry": RequestHardDiskDirectoryEntry(1, 0),
		"RequestDrumData":            RequestDrumData(2),
		"InstallDrumData":            InstallDrumData(2, make([]byte, akaiHeaderSize)),
		"AcceptSampleDataDump":       AcceptSampleDataDump(1),
		"AcceptCorrectedSampleDataDump": AcceptCorrectedSampleDataDump(1),
		"RequestSampleDataDump":      RequestSampleDataDump(1, 100),
	}
}

func TestBuildersObeyFraming(t *testing.T) {
	for name, f := range allBuilders() {
		assert.Equal(t, byte(0xF0), f[0], name)
		assert.Equal(t, byte(0xF7), f[len(f)-1], name)
		for _, b := range f[1 : len(f)-1] {
			assert.NotEqual(t, byte(0xF0), b, name)
			assert.NotEqual(t, byte(0xF7), b, name)
		}
	}
}

func TestRequestProgramHeaderUsesSevenBitSplit(t *testing.T) {
	f := RequestProgramHeader(5)
	// header(5) + item(2) + selector(1) + offset(2) + nbytes(2)
	assert.Equal(t, []byte{0xF0, 0x47, 0x00, byte(OpRequestProgramHeader), 0x48}, f[:5])
	assert.Equal(t, byte(5), f[5])
	assert.Equal(t, byte(0), f[6])
	assert.Equal(t, byte(0), f[7]) // selector
	assert.Equal(t, byte(0), f[8])
	assert.Equal(t, byte(0), f[9])
	s := codec.SplitU16(akaiHeaderSize)
	assert.Equal(t, s[0], f[10])
	assert.Equal(t, s[1], f[11])
}

func TestDecodeStatusReport(t *testing.T) {
	frame := []byte{
		0xF0, 0x47, 0x00, byte(STAT), 0x48,
		5, 1, // version minor, major
		0x10, 0x02, // max blocks
		0, 0, // free blocks
		0, 0, 0, 0, // max sample words
		0, 0, 0, 0, // free words
		0, // exclusive channel
		0xF7,
	}
	ev, ok := NewRegistry().Decode(frame)
	assert.True(t, ok)
	sr := ev.(StatusReport)
	assert.Equal(t, byte(5), sr.SoftwareVersionMinor)
	assert.Equal(t, byte(1), sr.SoftwareVersionMajor)
	assert.Equal(t, uint16(272), sr.MaxBlocks)
}

func TestDecodeCommandReply(t *testing.T) {
	ev, ok := NewRegistry().Decode(CommandReply(true))
	assert.True(t, ok)
	assert.Equal(t, CommandReply{Success: true}, ev)
}

func TestDecodeProgramHeaderResponseRoundTrips(t *testing.T) {
	data := make([]byte, 8)
	for i := range data {
		data[i] = byte(i + 1)
	}
	b := newS1000(byte(OpResponseProgramHeader)).itemOffsetLength(5, 0, 7, uint16(len(data))).nibbled(data).finish()
	ev, ok := NewRegistry().Decode(b)
	assert.True(t, ok)
	hp := ev.(HeaderPayload)
	assert.Equal(t, uint16(5), hp.Item)
	assert.Equal(t, uint16(7), hp.Offset)
	assert.Equal(t, data, hp.Data)
}

func TestDecodeVolumeListEntryActiveFlag(t *testing.T) {
	name := codec.ParseName("DRUMS")
	payload := append(append([]byte{}, name[:]...), 2, 9)
	b := newS1000(byte(OpResponseVolumeListItem)).itemOffsetLength(3, 0, 0, uint16(len(payload))).nibbled(payload).finish()
	ev, ok := NewRegistry().Decode(b)
	assert.True(t, ok)
	vle := ev.(VolumeListEntry)
	assert.Equal(t, uint16(3), vle.EntryNumber)
	assert.True(t, vle.Active)
	assert.Equal(t, "DRUMS", vle.EntryName.String())
}

func TestDecodeHardDiskDirectoryEntry(t *testing.T) {
	data := make([]byte, hardDiskEntrySize)
	name := codec.ParseName("VOL1")
	copy(data[:12], name[:])
	data[15] = 9  // model
	data[16] = 1  // file type
	b := newS1000(byte(OpResponseHardDiskDirectoryEntry)).itemOffsetLength(0, 1, 0, uint16(len(data))).nibbled(data).finish()
	ev, ok := NewRegistry().Decode(b)
	assert.True(t, ok)
	entry := ev.(HardDiskDirectoryEntry)
	assert.Equal(t, "VOL1", entry.Name.String())
	assert.Equal(t, byte(9), entry.Model)
	assert.Equal(t, byte(1), entry.FileType)
}

func TestDecodeMiscDataUsesNibblePerField(t *testing.T) {
	frame := []byte{
		0xF0, 0x47, 0x00, byte(MDATA), 0x48,
		3, 0, // basic midi channel = 3 (lo=3,hi=0)
		1, 0, // omni = 1
		1, 0, // program select enable
		5, 0, // selected program number
		0, 0, // omni override
		2, 0, // exclusive channel
		0xF7,
	}
	ev, ok := NewRegistry().Decode(frame)
	assert.True(t, ok)
	md := ev.(MiscData)
	assert.Equal(t, byte(3), md.BasicMIDIChannel)
	assert.Equal(t, byte(5), md.SelectedProgramNumber)
	assert.Equal(t, byte(2), md.MIDIExclusiveChannel)
}

func TestDecodeFileHeaderNameProbe(t *testing.T) {
	name := codec.ParseName("REVERB1")
	b := newS1000(byte(OpResponseFXReverb)).itemOffsetLength(0, 0, 3, 12).nibbled(name[:]).finish()
	ev, ok := NewRegistry().Decode(b)
	assert.True(t, ok)
	fh := ev.(FileHeaderName)
	assert.Equal(t, "REVERB1", fh.Name.String())
}

func TestMiscBankWidthTable(t *testing.T) {
	assert.Equal(t, 1, MiscBankWidth(1))
	assert.Equal(t, 8, MiscBankWidth(8))
	assert.Equal(t, 0, MiscBankWidth(0))
	assert.Equal(t, 0, MiscBankWidth(9))
}
