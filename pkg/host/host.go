// Package host is the synchronous call-shim surface a UI or CLI drives:
// one method per sampler operation, each building a typed frame, handing
// it to the engine, and performing a timed receive on a private reply
// channel. It is the Go analogue of the teacher's pkg/node.BaseNode
// (Read/Write over a single SDO client) and pkg/gateway/http's
// command-name-to-handler shape, specialized to one sampler connection.
package host

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fenwick-audio/sampler-core/pkg/codec"
	"github.com/fenwick-audio/sampler-core/pkg/engine"
	"github.com/fenwick-audio/sampler-core/pkg/frame"
	"github.com/fenwick-audio/sampler-core/pkg/oscillator"
	"github.com/fenwick-audio/sampler-core/pkg/sds"
)

// ErrTimeout is returned when a shim's timed receive expires without a
// correlated reply.
var ErrTimeout = errors.New("host: request timed out")

// Timeouts holds the three call budgets named in the protocol: a
// default, a bulk volume load/save budget, and a sample-transfer budget.
type Timeouts struct {
	Default time.Duration
	Bulk    time.Duration
	Sample  time.Duration
}

// DefaultTimeouts returns {2s, 60s, 100s}.
func DefaultTimeouts() Timeouts {
	return Timeouts{Default: 2 * time.Second, Bulk: 60 * time.Second, Sample: 100 * time.Second}
}

// Connection describes one MIDI endpoint the host has been told about.
// Real port enumeration is out of scope; the host only tracks what its
// caller has opened.
type Connection struct {
	ID      string
	Name    string
	IsInput bool
}

// Host is the call-shim surface bound to a single running Engine.
type Host struct {
	eng      *engine.Engine
	timeouts Timeouts
	logger   *logrus.Entry

	mu    sync.Mutex
	conns map[string]Connection
}

// New constructs a Host bound to eng.
func New(eng *engine.Engine, timeouts Timeouts, logger *logrus.Logger) *Host {
	if logger == nil {
		logger = logrus.New()
	}
	return &Host{
		eng:      eng,
		timeouts: timeouts,
		logger:   logger.WithField("service", "host"),
		conns:    make(map[string]Connection),
	}
}

// --- Port management -------------------------------------------------

// ListInputs returns connections opened with OpenInput.
func (h *Host) ListInputs() []Connection { return h.filterConns(true) }

// ListOutputs returns connections opened with OpenOutput.
func (h *Host) ListOutputs() []Connection { return h.filterConns(false) }

// OpenInput registers id as an input connection.
func (h *Host) OpenInput(id string) bool { return h.openConn(id, true) }

// OpenOutput registers id as an output connection.
func (h *Host) OpenOutput(id string) bool { return h.openConn(id, false) }

// Connections returns every registered connection, input and output.
func (h *Host) Connections() []Connection {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Connection, 0, len(h.conns))
	for _, c := range h.conns {
		out = append(out, c)
	}
	return out
}

func (h *Host) openConn(id string, isInput bool) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[id] = Connection{ID: id, Name: id, IsInput: isInput}
	return true
}

func (h *Host) filterConns(input bool) []Connection {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Connection, 0, len(h.conns))
	for _, c := range h.conns {
		if c.IsInput == input {
			out = append(out, c)
		}
	}
	return out
}

// --- call plumbing -----------------------------------------------------

func (h *Host) call(f []byte, timeout time.Duration) (engine.Reply, error) {
	reply := make(chan engine.Reply, 1)
	h.eng.Submit(engine.Request{Frame: f, Reply: reply})
	select {
	case r := <-reply:
		return r, nil
	case <-time.After(timeout):
		return engine.Reply{}, ErrTimeout
	}
}

func (h *Host) callDownload(f []byte, numSamples int, timeout time.Duration) (engine.Reply, error) {
	reply := make(chan engine.Reply, 1)
	d := sds.NewDownloader(numSamples)
	h.eng.Submit(engine.Request{Frame: f, Download: d, Reply: reply})
	select {
	case r := <-reply:
		return r, nil
	case <-time.After(timeout):
		return engine.Reply{}, ErrTimeout
	}
}

func (h *Host) callUpload(f []byte, u *sds.Uploader, timeout time.Duration) (engine.Reply, error) {
	reply := make(chan engine.Reply, 1)
	h.eng.Submit(engine.Request{Frame: f, Upload: u, Reply: reply})
	select {
	case r := <-reply:
		return r, nil
	case <-time.After(timeout):
		return engine.Reply{}, ErrTimeout
	}
}

func (h *Host) requestRange(f []byte, timeout time.Duration) ([]byte, error) {
	r, err := h.call(f, timeout)
	if err != nil {
		return nil, err
	}
	hp, ok := r.Event.(frame.HeaderPayload)
	if !ok {
		return nil, fmt.Errorf("host: unexpected reply %T", r.Event)
	}
	return hp.Data, nil
}

// changeRange sends a Request-shaped frame carrying a write payload. The
// device echoes either the same Response body it would send for a read,
// or a REPLY success code; receiving either within timeout is success,
// and a REPLY's code is honored when present.
func (h *Host) changeRange(f []byte, timeout time.Duration) (bool, error) {
	r, err := h.call(f, timeout)
	if err != nil {
		return false, err
	}
	if cr, ok := r.Event.(frame.CommandReply); ok {
		return cr.Success, nil
	}
	return true, nil
}

// --- Status / names ----------------------------------------------------

// StatusReport requests RSTAT.
func (h *Host) StatusReport() (frame.StatusReport, error) {
	r, err := h.call(frame.RequestStatus(), h.timeouts.Default)
	if err != nil {
		return frame.StatusReport{}, err
	}
	sr, ok := r.Event.(frame.StatusReport)
	if !ok {
		return frame.StatusReport{}, fmt.Errorf("host: unexpected reply %T", r.Event)
	}
	return sr, nil
}

// ResidentProgramNames requests RPLIST.
func (h *Host) ResidentProgramNames() ([]string, error) {
	return h.nameList(frame.RequestResidentProgramNames())
}

// ResidentSampleNames requests RSLIST.
func (h *Host) ResidentSampleNames() ([]string, error) {
	return h.nameList(frame.RequestResidentSampleNames())
}

func (h *Host) nameList(f []byte) ([]string, error) {
	r, err := h.call(f, h.timeouts.Default)
	if err != nil {
		return nil, err
	}
	nl, ok := r.Event.(frame.NameList)
	if !ok {
		return nil, fmt.Errorf("host: unexpected reply %T", r.Event)
	}
	out := make([]string, len(nl.Names))
	for i, n := range nl.Names {
		out[i] = n.String()
	}
	return out, nil
}

// --- Program/keygroup/sample header access ------------------------------

func (h *Host) RequestProgramHeader(pn uint16) ([]byte, error) {
	return h.requestRange(frame.RequestProgramHeader(pn), h.timeouts.Default)
}

func (h *Host) RequestProgramHeaderBytes(pn, off, n uint16) ([]byte, error) {
	return h.requestRange(frame.RequestProgramHeaderBytes(pn, off, n), h.timeouts.Default)
}

func (h *Host) ChangeProgramHeader(pn, off uint16, data []byte) (bool, error) {
	return h.changeRange(frame.ChangeProgramHeader(pn, off, data), h.timeouts.Default)
}

func (h *Host) RequestKeygroupHeader(pn uint16, kg byte) ([]byte, error) {
	return h.requestRange(frame.RequestKeygroupHeader(pn, kg), h.timeouts.Default)
}

func (h *Host) RequestKeygroupHeaderBytes(pn uint16, kg byte, off, n uint16) ([]byte, error) {
	return h.requestRange(frame.RequestKeygroupHeaderBytes(pn, kg, off, n), h.timeouts.Default)
}

func (h *Host) ChangeKeygroupHeader(pn uint16, kg byte, off uint16, data []byte) (bool, error) {
	return h.changeRange(frame.ChangeKeygroupHeader(pn, kg, off, data), h.timeouts.Default)
}

func (h *Host) RequestSampleHeader(sn uint16) ([]byte, error) {
	return h.requestRange(frame.RequestSampleHeader(sn), h.timeouts.Default)
}

func (h *Host) RequestSampleHeaderBytes(sn, off, n uint16) ([]byte, error) {
	return h.requestRange(frame.RequestSampleHeaderBytes(sn, off, n), h.timeouts.Default)
}

func (h *Host) ChangeSampleHeader(sn, off uint16, data []byte) (bool, error) {
	return h.changeRange(frame.ChangeSampleHeader(sn, off, data), h.timeouts.Default)
}

// --- Creation/deletion ---------------------------------------------------

// NewProgram installs a zeroed 192-byte program header at num.
func (h *Host) NewProgram(num uint16) (bool, error) {
	return h.install(frame.InstallProgramData(num, make([]byte, akaiHeaderSize)))
}

// NewKeygroup installs a zeroed keygroup header.
func (h *Host) NewKeygroup(num, kgIndex uint16) (bool, error) {
	return h.install(frame.InstallKeygroupData(num, kgIndex, make([]byte, akaiHeaderSize)))
}

// NewSample installs a zeroed sample header with no sample data.
func (h *Host) NewSample(num uint16) (bool, error) {
	return h.install(frame.InstallSampleData(num, make([]byte, akaiHeaderSize)))
}

// NewSampleFromTemplate installs a sample header and streams one period
// of waveform at 440Hz as its sample data, the oscillator-seeded sample
// spec.md names as the motivating use of C5.
func (h *Host) NewSampleFromTemplate(num uint16, waveform oscillator.Waveform) (bool, error) {
	samples := oscillator.Generate(waveform, 440)
	u := sds.NewUploader(samples)
	header := frame.InstallSampleData(num, make([]byte, akaiHeaderSize))
	r, err := h.callUpload(header, u, h.timeouts.Bulk)
	if err != nil {
		return false, err
	}
	if cr, ok := r.Event.(frame.CommandReply); ok {
		return cr.Success, nil
	}
	return true, nil
}

func (h *Host) install(f []byte) (bool, error) {
	r, err := h.call(f, h.timeouts.Default)
	if err != nil {
		return false, err
	}
	if cr, ok := r.Event.(frame.CommandReply); ok {
		return cr.Success, nil
	}
	return true, nil
}

func (h *Host) DeleteProgram(num uint16) (bool, error) {
	return h.install(frame.DeleteProgram(num))
}

func (h *Host) DeleteKeygroup(num, kgIndex uint16) (bool, error) {
	return h.install(frame.DeleteKeygroup(num, kgIndex))
}

func (h *Host) DeleteSample(num uint16) (bool, error) {
	return h.install(frame.DeleteSample(num))
}

const akaiHeaderSize = 192

// --- Sample data transfer -------------------------------------------------

// SampleData requests numSamples 16-bit PCM samples from sample sn via
// an SDS download, waiting up to the sample-transfer timeout.
func (h *Host) SampleData(sn uint16, numSamples int) ([]int16, error) {
	r, err := h.callDownload(frame.RequestSampleDataDump(sn, uint16(numSamples)), numSamples, h.timeouts.Sample)
	if err != nil {
		return nil, err
	}
	if r.Samples == nil {
		return nil, fmt.Errorf("host: unexpected reply %T", r.Event)
	}
	return r.Samples, nil
}

// --- Volume list / hard-disk directory -------------------------------------

// VolumeListEntry requests volume list entry n.
func (h *Host) VolumeListEntry(n uint16) (frame.VolumeListEntry, error) {
	r, err := h.call(frame.RequestVolumeListItem(n), h.timeouts.Default)
	if err != nil {
		return frame.VolumeListEntry{}, err
	}
	ve, ok := r.Event.(frame.VolumeListEntry)
	if !ok {
		return frame.VolumeListEntry{}, fmt.Errorf("host: unexpected reply %T", r.Event)
	}
	return ve, nil
}

// HardDiskDirectoryEntries requests n directory entries of fileType
// starting at start, one RequestHardDiskDirectoryEntry call per entry
// (the protocol has no multi-entry batch opcode).
func (h *Host) HardDiskDirectoryEntries(fileType byte, start uint16, n uint16) ([]frame.HardDiskDirectoryEntry, error) {
	out := make([]frame.HardDiskDirectoryEntry, 0, n)
	for i := uint16(0); i < n; i++ {
		r, err := h.call(frame.RequestHardDiskDirectoryEntry(fileType, start+i), h.timeouts.Default)
		if err != nil {
			return out, err
		}
		de, ok := r.Event.(frame.HardDiskDirectoryEntry)
		if !ok {
			return out, fmt.Errorf("host: unexpected reply %T", r.Event)
		}
		out = append(out, de)
	}
	return out, nil
}

// --- Partition/volume/media selection ---------------------------------

// These live in Miscellaneous bank 1 (one byte per datum), at indices
// this port reserves for storage-selection state. The protocol's own
// Miscellaneous bank is the only place spec.md gives these operations a
// wire home; it never assigns them their own opcode.
const (
	miscIdxSelectedPartition = 10
	miscIdxSelectedVolume    = 11
	miscIdxPartitionsCount   = 12
	miscIdxVolumesCount      = 13
	miscIdxActiveMedia       = 14
	miscBank1                = 1
)

const (
	mediaFloppy    = 0
	mediaHardDrive = 1
)

func (h *Host) SelectFloppy() (bool, error) {
	return h.changeRange(frame.ChangeMiscellaneous(miscIdxActiveMedia, miscBank1, []byte{mediaFloppy}), h.timeouts.Default)
}

func (h *Host) SelectHardDrive() (bool, error) {
	return h.changeRange(frame.ChangeMiscellaneous(miscIdxActiveMedia, miscBank1, []byte{mediaHardDrive}), h.timeouts.Default)
}

func (h *Host) SelectPartition(n byte) (bool, error) {
	return h.changeRange(frame.ChangeMiscellaneous(miscIdxSelectedPartition, miscBank1, []byte{n}), h.timeouts.Default)
}

func (h *Host) SelectVolume(n byte) (bool, error) {
	return h.changeRange(frame.ChangeMiscellaneous(miscIdxSelectedVolume, miscBank1, []byte{n}), h.timeouts.Default)
}

func (h *Host) PartitionsCount() (byte, error) { return h.miscByte(miscIdxPartitionsCount) }
func (h *Host) VolumesCount() (byte, error)    { return h.miscByte(miscIdxVolumesCount) }

func (h *Host) SelectedPartition() (byte, error) { return h.miscByte(miscIdxSelectedPartition) }
func (h *Host) SelectedVolume() (byte, error)    { return h.miscByte(miscIdxSelectedVolume) }

func (h *Host) miscByte(idx uint16) (byte, error) {
	data, err := h.requestRange(frame.RequestMiscellaneous(idx, miscBank1), h.timeouts.Default)
	if err != nil {
		return 0, err
	}
	if len(data) < 1 {
		return 0, fmt.Errorf("host: empty misc byte reply")
	}
	return data[0], nil
}

// --- Bulk volume load/save ------------------------------------------------

// volumeCommand is a 2-byte bank-2 Miscellaneous datum: [action, type].
const (
	miscIdxVolumeCommand = 20
	miscBankCommand      = 2

	volCmdClearAndLoad = 1
	volCmdLoad         = 2
	volCmdClearAndSave = 3
	volCmdSave         = 4
)

func (h *Host) volumeCommand(action, kind byte) (bool, error) {
	return h.changeRange(
		frame.ChangeMiscellaneous(miscIdxVolumeCommand, miscBankCommand, []byte{action, kind}),
		h.timeouts.Bulk,
	)
}

func (h *Host) ClearMemoryAndLoadFromVolume(kind byte) (bool, error) {
	return h.volumeCommand(volCmdClearAndLoad, kind)
}

func (h *Host) LoadFromVolume(kind byte) (bool, error) { return h.volumeCommand(volCmdLoad, kind) }

func (h *Host) ClearVolumeAndSave(kind byte) (bool, error) {
	return h.volumeCommand(volCmdClearAndSave, kind)
}

func (h *Host) SaveToVolume(kind byte) (bool, error) { return h.volumeCommand(volCmdSave, kind) }

// SaveToNewVolume is the two-step sequence spec.md names: bump the
// volume count, select the new slot, then save.
func (h *Host) SaveToNewVolume(kind byte) (bool, error) {
	count, err := h.VolumesCount()
	if err != nil {
		return false, err
	}
	newSlot := count + 1
	if ok, err := h.changeRange(
		frame.ChangeMiscellaneous(miscIdxVolumesCount, miscBank1, []byte{newSlot}),
		h.timeouts.Default); err != nil || !ok {
		return false, err
	}
	if ok, err := h.SelectVolume(newSlot); err != nil || !ok {
		return false, err
	}
	return h.SaveToVolume(kind)
}

// --- Effects / reverbs ---------------------------------------------------

// effectsFileItem and reverbsFileItem address the effects and reverbs
// file headers behind the shared FXReverb opcode: one FX file, two file
// items within it.
const (
	effectsFileItem = 0
	reverbsFileItem = 1
)

func (h *Host) EffectsList() ([]byte, error) {
	return h.requestRange(frame.RequestFXReverb(effectsFileItem, frame.FXReverbFileHeader, 0, akaiHeaderSize), h.timeouts.Default)
}

func (h *Host) ReverbsList() ([]byte, error) {
	return h.requestRange(frame.RequestFXReverb(reverbsFileItem, frame.FXReverbFileHeader, 0, akaiHeaderSize), h.timeouts.Default)
}

func (h *Host) Effect(n uint16) ([]byte, error) {
	return h.requestRange(frame.RequestFXReverb(n, frame.FXReverbEffectParameters, 0, akaiHeaderSize), h.timeouts.Default)
}

func (h *Host) Reverb(n uint16) ([]byte, error) {
	return h.requestRange(frame.RequestFXReverb(n, frame.FXReverbReverbParameters, 0, akaiHeaderSize), h.timeouts.Default)
}

func (h *Host) EffectUpdate(n uint16, data []byte) (bool, error) {
	return h.changeRange(frame.ChangeFXReverb(n, frame.FXReverbEffectParameters, 0, data), h.timeouts.Default)
}

func (h *Host) ReverbUpdate(n uint16, data []byte) (bool, error) {
	return h.changeRange(frame.ChangeFXReverb(n, frame.FXReverbReverbParameters, 0, data), h.timeouts.Default)
}

func (h *Host) EffectUpdatePart(n uint16, offset uint16, data []byte) (bool, error) {
	return h.changeRange(frame.ChangeFXReverb(n, frame.FXReverbEffectParameters, offset, data), h.timeouts.Default)
}

func (h *Host) ReverbUpdatePart(n uint16, offset uint16, data []byte) (bool, error) {
	return h.changeRange(frame.ChangeFXReverb(n, frame.FXReverbReverbParameters, offset, data), h.timeouts.Default)
}

func (h *Host) ProgramEffectAssignments(pn uint16) ([]byte, error) {
	return h.requestRange(frame.RequestFXReverb(pn, frame.FXReverbProgramAssignment, 0, akaiHeaderSize), h.timeouts.Default)
}

func (h *Host) SetProgramEffectAssignments(pn uint16, data []byte) (bool, error) {
	return h.changeRange(frame.ChangeFXReverb(pn, frame.FXReverbProgramAssignment, 0, data), h.timeouts.Default)
}

func (h *Host) ProgramReverbAssignments(pn uint16) ([]byte, error) {
	return h.requestRange(frame.RequestFXReverb(pn, frame.FXReverbReverbAssignment, 0, akaiHeaderSize), h.timeouts.Default)
}

func (h *Host) SetProgramReverbAssignments(pn uint16, data []byte) (bool, error) {
	return h.changeRange(frame.ChangeFXReverb(pn, frame.FXReverbReverbAssignment, 0, data), h.timeouts.Default)
}

// --- Miscellaneous bytes --------------------------------------------------

// miscNameBank is the 12-byte-wide bank (bank 6) used for name-shaped
// Miscellaneous data, matching codec.Name's fixed width exactly.
const miscNameBank = 6

func (h *Host) RequestMiscellaneousBytes(idx uint16, bank byte) ([]byte, error) {
	return h.requestRange(frame.RequestMiscellaneous(idx, bank), h.timeouts.Default)
}

func (h *Host) RequestMiscellaneousBytesName(idx uint16) (string, error) {
	data, err := h.requestRange(frame.RequestMiscellaneous(idx, miscNameBank), h.timeouts.Default)
	if err != nil {
		return "", err
	}
	var n codec.Name
	copy(n[:], data)
	return n.String(), nil
}

func (h *Host) RequestMiscellaneousBytesUpdate(idx uint16, bank byte, value []byte) (bool, error) {
	return h.changeRange(frame.ChangeMiscellaneous(idx, bank, value), h.timeouts.Default)
}

func (h *Host) RequestMiscellaneousBytesUpdateName(idx uint16, name string) (bool, error) {
	n := codec.ParseName(name)
	return h.changeRange(frame.ChangeMiscellaneous(idx, miscNameBank, n[:]), h.timeouts.Default)
}

// ChangeS1000MiscBytes writes the six S1000-dialect MDATA fields in one
// frame (basic MIDI channel, omni, program-select, ...), distinct from
// the Miscellaneous bank bytes above. MDATA is the engine's one advisory
// opcode: it never holds the pending gate, so this call does not wait
// for a reply.
func (h *Host) ChangeS1000MiscBytes(fields frame.MiscFields) (bool, error) {
	h.eng.Submit(engine.Request{Frame: frame.ChangeMiscData(fields)})
	return true, nil
}

// --- File header names -----------------------------------------------

func (h *Host) RequestCueListFileName() (string, error) {
	return h.fileHeaderName(frame.RequestCueList(0, frame.ListHeader, 3, 12), frame.OpResponseCueList)
}

func (h *Host) RequestTakeListFileName() (string, error) {
	return h.fileHeaderName(frame.RequestTakeList(0, frame.ListHeader, 3, 12), frame.OpResponseTakeList)
}

func (h *Host) RequestFXFileName() (string, error) {
	return h.fileHeaderName(frame.RequestFXReverb(0, frame.FXReverbFileHeader, 3, 12), frame.OpResponseFXReverb)
}

func (h *Host) fileHeaderName(f []byte, want frame.S3000Opcode) (string, error) {
	r, err := h.call(f, h.timeouts.Default)
	if err != nil {
		return "", err
	}
	fh, ok := r.Event.(frame.FileHeaderName)
	if !ok || fh.Opcode != want {
		return "", fmt.Errorf("host: unexpected reply %T", r.Event)
	}
	return fh.Name.String(), nil
}
