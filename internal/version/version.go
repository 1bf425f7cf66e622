package version

const (
	AppName     = "quranbot"
	AppFullName = "Quran Recitation Bot"
	AppVersion  = "0.4.0"
)
