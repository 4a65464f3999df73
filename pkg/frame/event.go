package frame

import "github.com/fenwick-audio/sampler-core/pkg/codec"

// Event is the closed tagged union of everything a decoder can produce.
// Concrete types below are the only implementations.
type Event interface {
	event()
}

// StatusReport decodes STAT.
type StatusReport struct {
	SoftwareVersionMinor byte
	SoftwareVersionMajor byte
	MaxBlocks            uint16
	FreeBlocks           uint16
	MaxSampleWords       uint32
	FreeWords            uint32
	ExclusiveChannel     byte
}

func (StatusReport) event() {}

// NameList decodes PLIST/SLIST: resident program or sample names.
type NameList struct {
	Names []codec.Name
}

func (NameList) event() {}

// HeaderPayload decodes an S3000 Response carrying a raw byte range
// (ProgramHeader, KeygroupHeader, SampleHeader responses, and the
// non-name bodies of FXReverb/CueList/TakeList/Miscellaneous).
type HeaderPayload struct {
	Opcode   S3000Opcode
	Item     uint16
	Selector byte
	Offset   uint16
	Data     []byte
}

func (HeaderPayload) event() {}

// FileHeaderName decodes the (item=0, selector=0, offset=3, nbytes=12)
// probe shared by FXReverb/CueList/TakeList file headers.
type FileHeaderName struct {
	Opcode S3000Opcode
	Name   codec.Name
}

func (FileHeaderName) event() {}

// VolumeListEntry decodes a ResponseVolumeListItem body.
type VolumeListEntry struct {
	EntryNumber uint16
	EntryName   codec.Name
	Type        byte
	LoadNumber  byte
	Active      bool
}

func (VolumeListEntry) event() {}

// HardDiskDirectoryEntry decodes one entry of a
// ResponseHardDiskDirectoryEntry body.
type HardDiskDirectoryEntry struct {
	Name     codec.Name
	FileType byte
	Model    byte
}

func (HardDiskDirectoryEntry) event() {}

// MiscData decodes inbound MDATA: six fields, each packed as a 4-bit
// nibble pair rather than a 7-bit split.
type MiscData struct {
	BasicMIDIChannel             byte
	BasicChannelOmni             byte
	MIDIProgramSelectEnable      byte
	SelectedProgramNumber        byte
	MIDIPlayCommandsOmniOverride byte
	MIDIExclusiveChannel         byte
}

func (MiscData) event() {}

// CommandReply decodes REPLY: success is true iff the code byte is 0.
type CommandReply struct {
	Success bool
}

func (CommandReply) event() {}
