package frame

// RequestStatus builds RSTAT: a bare status-report poll.
func RequestStatus() []byte {
	return newS1000(byte(RSTAT)).finish()
}

// RequestResidentProgramNames builds RPLIST: no body.
func RequestResidentProgramNames() []byte {
	return newS1000(byte(RPLIST)).finish()
}

// RequestResidentSampleNames builds RSLIST: no body.
func RequestResidentSampleNames() []byte {
	return newS1000(byte(RSLIST)).finish()
}

// RequestProgramData builds RPDATA for program num.
func RequestProgramData(num uint16) []byte {
	return newS1000(byte(RPDATA)).u16(num).finish()
}

// RequestKeygroupData builds RKDATA for program num, keygroup kgIndex.
func RequestKeygroupData(num, kgIndex uint16) []byte {
	return newS1000(byte(RKDATA)).u16(num).u16(kgIndex).finish()
}

// RequestSampleData builds RSDATA for sample num.
func RequestSampleData(num uint16) []byte {
	return newS1000(byte(RSDATA)).u16(num).finish()
}

// RequestMiscData builds RMDATA.
func RequestMiscData() []byte {
	return newS1000(byte(RMDATA)).finish()
}

// InstallProgramData builds PDATA: install a new program header at num.
// header must be exactly 192 bytes (AKAI_HEADER_SIZE).
func InstallProgramData(num uint16, header []byte) []byte {
	return newS1000(byte(PDATA)).u16(num).nibbled(header).finish()
}

// InstallKeygroupData builds KDATA: install a new keygroup header.
func InstallKeygroupData(num, kgIndex uint16, header []byte) []byte {
	return newS1000(byte(KDATA)).u16(num).u16(kgIndex).nibbled(header).finish()
}

// InstallSampleData builds SDATA: install a new sample header.
func InstallSampleData(num uint16, header []byte) []byte {
	return newS1000(byte(SDATA)).u16(num).nibbled(header).finish()
}

// DeleteProgram builds DELP.
func DeleteProgram(num uint16) []byte {
	return newS1000(byte(DELP)).u16(num).finish()
}

// DeleteKeygroup builds DELK.
func DeleteKeygroup(num, kgIndex uint16) []byte {
	return newS1000(byte(DELK)).u16(num).u16(kgIndex).finish()
}

// DeleteSample builds DELS.
func DeleteSample(num uint16) []byte {
	return newS1000(byte(DELS)).u16(num).finish()
}

// MiscFields is the fixed six-byte body of an MDATA change request.
type MiscFields struct {
	BasicMIDIChannel             byte
	BasicChannelOmni             byte
	MIDIProgramSelectEnable      byte
	SelectedProgramNumber        byte
	MIDIPlayCommandsOmniOverride byte
	MIDIExclusiveChannel         byte
}

// ChangeMiscData builds MDATA: six nibble-packed bytes, low nibble then
// high nibble per field (not a 7-bit split).
func ChangeMiscData(f MiscFields) []byte {
	return newS1000(byte(MDATA)).nibbled([]byte{
		f.BasicMIDIChannel,
		f.BasicChannelOmni,
		f.MIDIProgramSelectEnable,
		f.SelectedProgramNumber,
		f.MIDIPlayCommandsOmniOverride,
		f.MIDIExclusiveChannel,
	}).finish()
}

// SetExclusiveChannel builds SETEX: set the S1000 exclusive MIDI channel.
// No reply is decoded for this opcode in the source; callers should not
// wait on a correlated response.
func SetExclusiveChannel(channel byte) []byte {
	return newS1000(byte(SETEX)).byte(channel).finish()
}

// CommandReply builds a REPLY frame: success=true encodes 0x00, false a
// non-zero error code. Used by device simulators and tests.
func CommandReply(success bool) []byte {
	code := byte(0)
	if !success {
		code = 0x01
	}
	return newS1000(byte(REPLY)).byte(code).finish()
}

// RequestSampleDataDump builds RSPACK: request an SDS sample dump of
// numSamples 16-bit samples from sample sn.
func RequestSampleDataDump(sn uint16, numSamples uint16) []byte {
	return newS1000(byte(RSPACK)).u16(sn).u16(numSamples).finish()
}

// AcceptSampleDataDump builds ASPACK: acknowledge one inbound SDS packet
// at the S1000-dialect level, alongside the SDS sub-protocol's own ACK.
func AcceptSampleDataDump(sn uint16) []byte {
	return newS1000(byte(ASPACK)).u16(sn).finish()
}

// AcceptCorrectedSampleDataDump builds CASPACK, the opcode enum's
// "corrected ASPACK". The original source defines no behavioral
// difference from ASPACK, so this builds the identical body shape.
func AcceptCorrectedSampleDataDump(sn uint16) []byte {
	return newS1000(byte(CASPACK)).u16(sn).finish()
}

// RequestDrumData builds RDDATA for drum input settings num.
func RequestDrumData(num uint16) []byte {
	return newS1000(byte(RDDATA)).u16(num).finish()
}

// InstallDrumData builds DDATA: install drum input settings, plumbed
// identically to InstallSampleData since the original defines no further
// semantics for this opcode family beyond the byte range itself.
func InstallDrumData(num uint16, data []byte) []byte {
	return newS1000(byte(DDATA)).u16(num).nibbled(data).finish()
}
