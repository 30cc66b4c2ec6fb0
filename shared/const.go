package shared

const (
	HeaderAdminKey = "x-admin-key"

	VerdictFair = "Fair Trade"
	VerdictWin  = "Win for Advertiser"
	VerdictLoss = "Loss for Advertiser"

	MaskToken = "***"

	MaxTitleLength       = 120
	MinTitleLength       = 3
	MaxDescriptionLength = 200
	MaxVerdictLength     = 60
	MaxDiscordLength     = 32
	MaxRobloxLength      = 20
	MaxUserAgentLength   = 200
	MaxIPLength          = 64
)
