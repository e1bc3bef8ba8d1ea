package view

// Level classifies a Notice.
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notice is a dismissible message shown above the page.
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

func errorNotice(msg string) *Notice { return &Notice{Level: LevelError, Message: msg} }

func infoNotice(msg string) *Notice { return &Notice{Level: LevelInfo, Message: msg} }
