// internal/app/features/meetings/handler.go
package meetings

import (
	"go.uber.org/zap"

	"github.com/bookcrew/bookcrew/internal/app/system/flash"
	"github.com/bookcrew/bookcrew/internal/bookcrew"
)

type Handler struct {
	API   bookcrew.API
	Flash *flash.Flash
	Log   *zap.Logger
}

func NewHandler(api bookcrew.API, fl *flash.Flash, logger *zap.Logger) *Handler {
	return &Handler{API: api, Flash: fl, Log: logger}
}

func errorText(err error, fallback string) string {
	if bookcrew.IsUnreachable(err) {
		return "네트워크 연결을 확인해주세요."
	}
	return bookcrew.Message(err, fallback)
}
