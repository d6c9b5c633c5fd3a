package config

const (
	RequestedSessionNotExist    = "meeting not found"
	SessionIdOrJoinLinkRequired = "meeting ID or valid join link required"
	NoAudioFileProvided         = "no audio file provided"
	InvalidAudioFileType        = "uploaded file is not an audio file"
	TranscriptionFailed         = "failed to transcribe audio"
	FallbackReply               = "I'm processing that information. Could you please repeat?"
)
