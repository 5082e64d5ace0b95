package audio

// Channel names one speaker position in a layout.
type Channel int

const (
	FrontLeft Channel = iota
	FrontRight
	FrontCenter
	LowFrequency
	SurroundLeft
	SurroundRight
	BackLeft
	BackRight
)

func (c Channel) String() string {
	switch c {
	case FrontLeft:
		return "L"
	case FrontRight:
		return "R"
	case FrontCenter:
		return "C"
	case LowFrequency:
		return "LFE"
	case SurroundLeft:
		return "LS"
	case SurroundRight:
		return "RS"
	case BackLeft:
		return "LB"
	case BackRight:
		return "RB"
	default:
		return "?"
	}
}

// ChannelLayout names the speaker arrangement of an interleaved stream.
type ChannelLayout int

const (
	LayoutUnknown ChannelLayout = iota
	Mono
	Stereo
	Surround21
	Surround51
	Surround71
)

// LayoutForChannels maps a channel count to its conventional layout.
// Counts without a conventional arrangement map to LayoutUnknown.
func LayoutForChannels(n int) ChannelLayout {
	switch n {
	case 1:
		return Mono
	case 2:
		return Stereo
	case 3:
		return Surround21
	case 6:
		return Surround51
	case 8:
		return Surround71
	default:
		return LayoutUnknown
	}
}

// Channels returns the speaker positions in interleave order.
func (l ChannelLayout) Channels() []Channel {
	switch l {
	case Mono:
		return []Channel{FrontCenter}
	case Stereo:
		return []Channel{FrontLeft, FrontRight}
	case Surround21:
		return []Channel{FrontLeft, FrontRight, LowFrequency}
	case Surround51:
		return []Channel{FrontLeft, FrontRight, FrontCenter, LowFrequency, SurroundLeft, SurroundRight}
	case Surround71:
		return []Channel{FrontLeft, FrontRight, FrontCenter, LowFrequency, SurroundLeft, SurroundRight, BackLeft, BackRight}
	default:
		return nil
	}
}

// Count returns the number of channels in the layout, 0 for LayoutUnknown.
func (l ChannelLayout) Count() int {
	return len(l.Channels())
}

func (l ChannelLayout) String() string {
	switch l {
	case Mono:
		return "mono"
	case Stereo:
		return "stereo"
	case Surround21:
		return "2.1"
	case Surround51:
		return "5.1"
	case Surround71:
		return "7.1"
	default:
		return "unknown"
	}
}
