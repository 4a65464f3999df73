package frame

const (
	akaiHeaderSize      = 192
	volumeListEntrySize = 14
	hardDiskEntrySize   = 24
)

// RequestRange builds an S3000 Request frame: item/selector/offset/nbytes
// with no payload. Covers ProgramHeader, KeygroupHeader, SampleHeader,
// FXReverb, CueList, TakeList, Miscellaneous, VolumeListItem and
// HardDiskDirectoryEntry requests, which all share this body shape.
func RequestRange(opcode S3000Opcode, item uint16, selector byte, offset, nbytes uint16) []byte {
	return newS1000(byte(opcode)).itemOffsetLength(item, selector, offset, nbytes).finish()
}

// ChangeRange builds an S3000 frame with the given opcode carrying a
// nibble-packed payload: item/selector/offset/nbytes followed by the
// payload.
func ChangeRange(opcode S3000Opcode, item uint16, selector byte, offset uint16, data []byte) []byte {
	return newS1000(byte(opcode)).
		itemOffsetLength(item, selector, offset, uint16(len(data))).
		nibbled(data).
		finish()
}

// RequestProgramHeader requests the full 192-byte header of program pn.
func RequestProgramHeader(pn uint16) []byte {
	return RequestRange(OpRequestProgramHeader, pn, 0, 0, akaiHeaderSize)
}

// RequestProgramHeaderBytes requests off..off+n of program pn's header.
func RequestProgramHeaderBytes(pn uint16, off, n uint16) []byte {
	return RequestRange(OpRequestProgramHeader, pn, 0, off, n)
}

// ChangeProgramHeader writes data at off into program pn's header. Writes
// carry the paired Response opcode, not Request: the device distinguishes
// a header read from a header write by which of the pair arrives.
func ChangeProgramHeader(pn uint16, off uint16, data []byte) []byte {
	return ChangeRange(OpResponseProgramHeader, pn, 0, off, data)
}

// RequestKeygroupHeader requests the full header of program pn, keygroup kg.
func RequestKeygroupHeader(pn uint16, kg byte) []byte {
	return RequestRange(OpRequestKeygroupHeader, pn, kg, 0, akaiHeaderSize)
}

// RequestKeygroupHeaderBytes requests a byte range of a keygroup header.
func RequestKeygroupHeaderBytes(pn uint16, kg byte, off, n uint16) []byte {
	return RequestRange(OpRequestKeygroupHeader, pn, kg, off, n)
}

// ChangeKeygroupHeader writes data at off into a keygroup header, using
// the Response opcode as the write carries no reply payload of its own.
func ChangeKeygroupHeader(pn uint16, kg byte, off uint16, data []byte) []byte {
	return ChangeRange(OpResponseKeygroupHeader, pn, kg, off, data)
}

// RequestSampleHeader requests the full header of sample sn.
func RequestSampleHeader(sn uint16) []byte {
	return RequestRange(OpRequestSampleHeader, sn, 0, 0, akaiHeaderSize)
}

// RequestSampleHeaderBytes requests a byte range of a sample header.
func RequestSampleHeaderBytes(sn uint16, off, n uint16) []byte {
	return RequestRange(OpRequestSampleHeader, sn, 0, off, n)
}

// ChangeSampleHeader writes data at off into a sample header, using the
// Response opcode as the write carries no reply payload of its own.
func ChangeSampleHeader(sn uint16, off uint16, data []byte) []byte {
	return ChangeRange(OpResponseSampleHeader, sn, 0, off, data)
}

// RequestFXReverb requests the body addressed by sel (file header,
// program/reverb assignment table, or effect/reverb parameters).
func RequestFXReverb(item uint16, sel FXReverbSelector, off, n uint16) []byte {
	return RequestRange(OpRequestFXReverb, item, byte(sel), off, n)
}

// ChangeFXReverb writes data at off into the body addressed by sel.
func ChangeFXReverb(item uint16, sel FXReverbSelector, off uint16, data []byte) []byte {
	return ChangeRange(OpRequestFXReverb, item, byte(sel), off, data)
}

// RequestCueList requests the header or an entry of the cue list file.
func RequestCueList(item uint16, sel ListSelector, off, n uint16) []byte {
	return RequestRange(OpRequestCueList, item, byte(sel), off, n)
}

// RequestTakeList requests the header or an entry of the take list file.
func RequestTakeList(item uint16, sel ListSelector, off, n uint16) []byte {
	return RequestRange(OpRequestTakeList, item, byte(sel), off, n)
}

// RequestMiscellaneous requests datum idx from data bank bank.
func RequestMiscellaneous(idx uint16, bank byte) []byte {
	return RequestRange(OpRequestMiscellaneous, idx, bank, 0, uint16(MiscBankWidth(int(bank))))
}

// ChangeMiscellaneous writes value into datum idx of data bank bank.
func ChangeMiscellaneous(idx uint16, bank byte, value []byte) []byte {
	return ChangeRange(OpRequestMiscellaneous, idx, bank, 0, value)
}

// RequestVolumeListItem requests volume list entry n.
func RequestVolumeListItem(n uint16) []byte {
	return RequestRange(OpRequestVolumeListItem, n, 0, 0, volumeListEntrySize)
}

// RequestHardDiskDirectoryEntry requests one directory entry of the given
// fileType starting at index start.
func RequestHardDiskDirectoryEntry(fileType byte, start uint16) []byte {
	return RequestRange(OpRequestHardDiskDirectoryEntry, start, fileType, 0, hardDiskEntrySize)
}
