package frame

import "github.com/fenwick-audio/sampler-core/pkg/codec"

// DecodeFunc recognizes and decodes one inbound frame. It returns
// ok=false if frame is not the kind it handles, so the Registry can try
// the next one; this keeps decoders pure and independent of shared
// state, per the dispatch-table design the opcode fan-out calls for.
type DecodeFunc func(frame []byte) (Event, bool)

// Registry is an ordered list of recognizer/decoder pairs. Linear scan
// is fine at this fan-out.
type Registry struct {
	decoders []DecodeFunc
}

// NewRegistry builds the registry covering every S1000/S3000 decoder
// this package implements.
func NewRegistry() *Registry {
	return &Registry{decoders: []DecodeFunc{
		decodeStatusReport,
		decodeNameList,
		decodeCommandReply,
		decodeMiscData,
		decodeVolumeListEntry,
		decodeHardDiskDirectoryEntry,
		decodeFileHeaderName,
		decodeHeaderRange,
	}}
}

// Decode runs frame through every registered decoder and returns the
// first match.
func (r *Registry) Decode(frame []byte) (Event, bool) {
	for _, d := range r.decoders {
		if ev, ok := d(frame); ok {
			return ev, true
		}
	}
	return nil, false
}

// isWellFormed checks the minimal SysEx framing contract common to every
// S1000/S3000 family frame: start byte, manufacturer code, identity, and
// terminator.
func isWellFormed(frame []byte, minLen int) bool {
	if len(frame) < minLen {
		return false
	}
	if frame[0] != startOfExclusive || frame[len(frame)-1] != endOfExclusive {
		return false
	}
	return frame[1] == ManufacturerID && frame[4] == IdentityID
}

func decodeStatusReport(frame []byte) (Event, bool) {
	if !isWellFormed(frame, 20) || frame[3] != byte(STAT) {
		return nil, false
	}
	return StatusReport{
		SoftwareVersionMinor: frame[5],
		SoftwareVersionMajor: frame[6],
		MaxBlocks:            codec.JoinU16(frame[7], frame[8]),
		FreeBlocks:           codec.JoinU16(frame[9], frame[10]),
		MaxSampleWords:       codec.JoinU32(frame[11], frame[12], frame[13], frame[14]),
		FreeWords:            codec.JoinU32(frame[15], frame[16], frame[17], frame[18]),
		ExclusiveChannel:     frame[19],
	}, true
}

func decodeNameList(frame []byte) (Event, bool) {
	if !isWellFormed(frame, 7) {
		return nil, false
	}
	if frame[3] != byte(PLIST) && frame[3] != byte(SLIST) {
		return nil, false
	}
	count := codec.JoinU16(frame[5], frame[6])
	body := frame[7 : len(frame)-1]
	names := make([]codec.Name, 0, count)
	for i := 0; i < int(count) && (i+1)*12 <= len(body); i++ {
		var n codec.Name
		copy(n[:], body[i*12:(i+1)*12])
		names = append(names, n)
	}
	return NameList{Names: names}, true
}

func decodeCommandReply(frame []byte) (Event, bool) {
	if !isWellFormed(frame, 7) || frame[3] != byte(REPLY) {
		return nil, false
	}
	return CommandReply{Success: frame[5] == 0}, true
}

// decodeMiscData decodes inbound MDATA: six fields packed as nibble pairs
// (low nibble then high), distinct from the 7-bit split used everywhere
// else on the wire.
func decodeMiscData(frame []byte) (Event, bool) {
	if !isWellFormed(frame, 18) || frame[3] != byte(MDATA) {
		return nil, false
	}
	body := frame[5:17]
	field := func(i int) byte {
		lo := body[2*i]
		hi := body[2*i+1]
		return (hi << 4) | (lo & 0x0F)
	}
	return MiscData{
		BasicMIDIChannel:             field(0),
		BasicChannelOmni:             field(1),
		MIDIProgramSelectEnable:      field(2),
		SelectedProgramNumber:        field(3),
		MIDIPlayCommandsOmniOverride: field(4),
		MIDIExclusiveChannel:         field(5),
	}, true
}

// decodeHeaderRange decodes the common S3000 Response body shape:
// item/selector/offset/nbytes followed by a nibble-packed payload.
func decodeHeaderRange(frame []byte) (Event, bool) {
	if !isWellFormed(frame, 13) {
		return nil, false
	}
	opcode := S3000Opcode(frame[3])
	if !isS3000Response(opcode) {
		return nil, false
	}
	item := codec.JoinU16(frame[5], frame[6])
	selector := frame[7]
	offset := codec.JoinU16(frame[8], frame[9])
	nbytes := codec.JoinU16(frame[10], frame[11])
	wire := frame[12 : len(frame)-1]
	if len(wire) < int(nbytes)*2 {
		return nil, false
	}
	data := codec.Unnibble(wire[:int(nbytes)*2])
	return HeaderPayload{Opcode: opcode, Item: item, Selector: selector, Offset: offset, Data: data}, true
}

// decodeFileHeaderName recognizes the (item=0, selector=0, offset=3,
// nbytes=12) file-header-name probe on FXReverb/CueList/TakeList
// responses and decodes the payload as a Name instead of raw bytes.
func decodeFileHeaderName(frame []byte) (Event, bool) {
	if !isWellFormed(frame, 13) {
		return nil, false
	}
	opcode := S3000Opcode(frame[3])
	if opcode != OpResponseFXReverb && opcode != OpResponseCueList && opcode != OpResponseTakeList {
		return nil, false
	}
	item := codec.JoinU16(frame[5], frame[6])
	selector := frame[7]
	offset := codec.JoinU16(frame[8], frame[9])
	nbytes := codec.JoinU16(frame[10], frame[11])
	if item != 0 || selector != 0 || offset != 3 || nbytes != 12 {
		return nil, false
	}
	wire := frame[12 : len(frame)-1]
	if len(wire) < 24 {
		return nil, false
	}
	data := codec.Unnibble(wire[:24])
	var n codec.Name
	copy(n[:], data)
	return FileHeaderName{Opcode: opcode, Name: n}, true
}

func decodeVolumeListEntry(frame []byte) (Event, bool) {
	if !isWellFormed(frame, 13) || S3000Opcode(frame[3]) != OpResponseVolumeListItem {
		return nil, false
	}
	item := codec.JoinU16(frame[5], frame[6])
	nbytes := codec.JoinU16(frame[10], frame[11])
	wire := frame[12 : len(frame)-1]
	if len(wire) < int(nbytes)*2 || nbytes < 14 {
		return nil, false
	}
	data := codec.Unnibble(wire[:int(nbytes)*2])
	var name codec.Name
	copy(name[:], data[:12])
	entryType := data[12]
	return VolumeListEntry{
		EntryNumber: item,
		EntryName:   name,
		Type:        entryType,
		LoadNumber:  data[13],
		Active:      entryType > 0,
	}, true
}

func decodeHardDiskDirectoryEntry(frame []byte) (Event, bool) {
	if !isWellFormed(frame, 13) || S3000Opcode(frame[3]) != OpResponseHardDiskDirectoryEntry {
		return nil, false
	}
	wire := frame[12 : len(frame)-1]
	if len(wire) < hardDiskEntrySize*2 {
		return nil, false
	}
	data := codec.Unnibble(wire[:hardDiskEntrySize*2])
	var name codec.Name
	copy(name[:], data[:12])
	return HardDiskDirectoryEntry{
		Name:     name,
		Model:    data[15],
		FileType: data[16],
	}, true
}

func isS3000Response(opcode S3000Opcode) bool {
	switch opcode {
	case OpResponseProgramHeader, OpResponseKeygroupHeader, OpResponseSampleHeader,
		OpResponseFXReverb, OpResponseCueList, OpResponseTakeList,
		OpResponseMiscellaneous, OpResponseVolumeListItem, OpResponseHardDiskDirectoryEntry:
		return true
	}
	return false
}
