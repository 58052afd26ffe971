// Package audio provides fire-and-forget sound cue playback.
//
// Cues are decoded once into memory buffers. A bank groups numbered
// variations of a cue ("footstep_01", "footstep_02" form bank "footstep")
// and plays them in turn.
package audio

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"

	"github.com/ubuntunux/stoneage/internal/logger"
)

// DefaultSampleRate is the default sample rate for audio playback.
const DefaultSampleRate = beep.SampleRate(44100)

var (
	// ErrAudioNotInitialized is returned by operations that need the speaker.
	ErrAudioNotInitialized = errors.New("audio not initialized")
	// ErrUnknownCue is returned when a cue or bank name is not loaded.
	ErrUnknownCue = errors.New("unknown sound cue")
)

// LoopMode selects how a bank cue is played.
type LoopMode int

const (
	LoopNone LoopMode = iota
	LoopForever
)

// Manager plays sound cues through a shared mixer.
type Manager struct {
	mu sync.RWMutex

	// State
	initialized bool
	sampleRate  beep.SampleRate

	// Volume settings (0.0 to 1.0)
	masterVolume float64
	sfxVolLevel  float64
	muted        bool

	sfxMixer *beep.Mixer

	cues  map[string]*beep.Buffer
	banks map[string][]string
	next  map[string]int
	loops map[string]*beep.Ctrl

	played map[string]int
}

// New creates a new audio manager.
func New() *Manager {
	return &Manager{
		sampleRate:   DefaultSampleRate,
		masterVolume: 1.0,
		sfxVolLevel:  1.0,
		sfxMixer:     &beep.Mixer{},
		cues:         make(map[string]*beep.Buffer),
		banks:        make(map[string][]string),
		next:         make(map[string]int),
		loops:        make(map[string]*beep.Ctrl),
		played:       make(map[string]int),
	}
}

// Init initializes the speaker.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30))
	if err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	speaker.Play(m.sfxMixer)

	m.initialized = true
	return nil
}

// Close shuts down the audio system.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	for name, ctrl := range m.loops {
		ctrl.Paused = true
		delete(m.loops, name)
	}
	speaker.Clear()
	m.initialized = false
}

// IsInitialized returns whether the speaker is running.
func (m *Manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// SetMasterVolume sets the master volume (0.0 to 1.0).
func (m *Manager) SetMasterVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.masterVolume = clamp(vol, 0, 1)
}

// SetSFXVolume sets the SFX volume (0.0 to 1.0).
func (m *Manager) SetSFXVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sfxVolLevel = clamp(vol, 0, 1)
}

// SetMuted silences all new cues.
func (m *Manager) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = muted
}

// GetMasterVolume returns the master volume.
func (m *Manager) GetMasterVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.masterVolume
}

// GetSFXVolume returns the SFX volume.
func (m *Manager) GetSFXVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sfxVolLevel
}

// volumeToDb converts a 0-1 volume to decibel scale.
// vol=1 -> 0dB, vol=0.5 -> -6dB, vol=0.25 -> -12dB.
func volumeToDb(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return 20 * math.Log10(vol)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// AddCue decodes a streamer into memory under name and files it into the
// bank derived from the name.
func (m *Manager) AddCue(name string, format beep.Format, s beep.Streamer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if format.SampleRate != m.sampleRate {
		s = beep.Resample(4, format.SampleRate, m.sampleRate, s)
		format.SampleRate = m.sampleRate
	}
	buf := beep.NewBuffer(format)
	buf.Append(s)

	if _, exists := m.cues[name]; !exists {
		bank := bankName(name)
		m.banks[bank] = append(m.banks[bank], name)
		sort.Strings(m.banks[bank])
	}
	m.cues[name] = buf
}

// LoadDir loads every .wav file in dir. The cue name is the file name
// without extension.
func (m *Manager) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read sound dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".wav") {
			continue
		}
		if err := m.loadFile(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	streamer, format, err := wav.Decode(f)
	if err != nil {
		return fmt.Errorf("decode wav %s: %w", path, err)
	}
	defer streamer.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	m.AddCue(name, format, streamer)
	return nil
}

// HasCue reports whether a cue is loaded.
func (m *Manager) HasCue(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.cues[name]
	return ok
}

// Bank returns the cue names in a bank, in play order.
func (m *Manager) Bank(name string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.banks[name]...)
}

// PlayCount returns how many times a cue was requested.
func (m *Manager) PlayCount(name string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.played[name]
}

// PlaySound plays a cue once. Failures are logged, never returned.
func (m *Manager) PlaySound(name string) {
	if err := m.play(name, LoopNone); err != nil {
		logger.Named("audio").Debug("play sound", zap.String("cue", name), zap.Error(err))
	}
}

// PlaySoundBank plays the next cue of a bank. With LoopForever the cue
// repeats until StopSoundBank.
func (m *Manager) PlaySoundBank(bank string, mode LoopMode) {
	m.mu.Lock()
	names := m.banks[bank]
	if len(names) == 0 {
		m.mu.Unlock()
		logger.Named("audio").Debug("play sound bank", zap.String("bank", bank), zap.Error(ErrUnknownCue))
		return
	}
	name := names[m.next[bank]%len(names)]
	m.next[bank]++
	m.mu.Unlock()

	if err := m.play(name, mode); err != nil {
		logger.Named("audio").Debug("play sound bank", zap.String("bank", bank), zap.String("cue", name), zap.Error(err))
	}
}

// StopSoundBank stops a looping bank.
func (m *Manager) StopSoundBank(bank string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ctrl, ok := m.loops[bank]; ok {
		speaker.Lock()
		ctrl.Paused = true
		ctrl.Streamer = nil
		speaker.Unlock()
		delete(m.loops, bank)
	}
}

func (m *Manager) play(name string, mode LoopMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	buf, ok := m.cues[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCue, name)
	}
	m.played[name]++

	if !m.initialized {
		return ErrAudioNotInitialized
	}
	vol := m.masterVolume * m.sfxVolLevel
	if m.muted || vol <= 0 {
		return nil
	}

	var s beep.Streamer = buf.Streamer(0, buf.Len())
	if mode == LoopForever {
		bank := bankName(name)
		if _, playing := m.loops[bank]; playing {
			return nil
		}
		ctrl := &beep.Ctrl{Streamer: &loopStreamer{streamer: buf.Streamer(0, buf.Len())}}
		m.loops[bank] = ctrl
		s = ctrl
	}

	speaker.Lock()
	m.sfxMixer.Add(&effects.Volume{
		Streamer: s,
		Base:     2,
		Volume:   volumeToDb(vol),
	})
	speaker.Unlock()
	return nil
}

// bankName strips a trailing "_NN" variation suffix.
func bankName(cue string) string {
	i := strings.LastIndexByte(cue, '_')
	if i <= 0 || i == len(cue)-1 {
		return cue
	}
	for _, r := range cue[i+1:] {
		if r < '0' || r > '9' {
			return cue
		}
	}
	return cue[:i]
}

// loopStreamer replays a seekable streamer from the start whenever it drains.
type loopStreamer struct {
	streamer beep.StreamSeeker
}

func (l *loopStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if l.streamer.Len() == 0 {
		return 0, false
	}
	filled := 0
	for filled < len(samples) {
		n, ok := l.streamer.Stream(samples[filled:])
		filled += n
		if !ok || n == 0 {
			if err := l.streamer.Seek(0); err != nil {
				return filled, filled > 0
			}
		}
	}
	return filled, true
}

func (l *loopStreamer) Err() error {
	return l.streamer.Err()
}
