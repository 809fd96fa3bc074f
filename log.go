package glide

import "go.uber.org/zap"

// loggerOrNop returns l, or a no-op logger when l is nil.
func loggerOrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

func identifierField(id Identifier) zap.Field {
	return zap.String("identifier", id.String())
}

func elementField(el ElementID) zap.Field {
	return zap.Uint32("element", uint32(el))
}
