// internal/domain/channel.go
package domain

// Channel identifies one sales channel feeding the monthly report.
type Channel string

const (
	ChannelAmazon Channel = "amazon"
	ChannelEtsy   Channel = "etsy"
	ChannelWeb    Channel = "web"
	ChannelMerch  Channel = "merch"
)

// Channels lists every channel the aggregate requires, in report order.
func Channels() []Channel {
	return []Channel{ChannelAmazon, ChannelEtsy, ChannelWeb, ChannelMerch}
}
