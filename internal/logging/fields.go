package logging

import (
	"time"

	"github.com/rs/zerolog"
)

// Field is a typed structured logging field.
type Field struct {
	key   string
	value interface{}
	kind  fieldKind
}

type fieldKind int

const (
	kindString fieldKind = iota
	kindInt
	kindFloat
	kindBool
	kindDuration
	kindError
	kindAny
)

func (f Field) addTo(e *zerolog.Event) {
	switch f.kind {
	case kindString:
		e.Str(f.key, f.value.(string))
	case kindInt:
		e.Int(f.key, f.value.(int))
	case kindFloat:
		e.Float64(f.key, f.value.(float64))
	case kindBool:
		e.Bool(f.key, f.value.(bool))
	case kindDuration:
		e.Dur(f.key, f.value.(time.Duration))
	case kindError:
		e.AnErr(f.key, f.value.(error))
	default:
		e.Interface(f.key, f.value)
	}
}

func (f Field) addToContext(c zerolog.Context) zerolog.Context {
	switch f.kind {
	case kindString:
		return c.Str(f.key, f.value.(string))
	case kindInt:
		return c.Int(f.key, f.value.(int))
	case kindFloat:
		return c.Float64(f.key, f.value.(float64))
	case kindBool:
		return c.Bool(f.key, f.value.(bool))
	case kindDuration:
		return c.Dur(f.key, f.value.(time.Duration))
	case kindError:
		return c.AnErr(f.key, f.value.(error))
	default:
		return c.Interface(f.key, f.value)
	}
}

// --- Field constructors ---

func String(key, value string) Field {
	return Field{key: key, value: value, kind: kindString}
}

func Int(key string, value int) Field {
	return Field{key: key, value: value, kind: kindInt}
}

func Float64(key string, value float64) Field {
	return Field{key: key, value: value, kind: kindFloat}
}

func Bool(key string, value bool) Field {
	return Field{key: key, value: value, kind: kindBool}
}

func Duration(key string, value time.Duration) Field {
	return Field{key: key, value: value, kind: kindDuration}
}

func Error(err error) Field {
	return Field{key: zerolog.ErrorFieldName, value: err, kind: kindError}
}

func Any(key string, value interface{}) Field {
	return Field{key: key, value: value, kind: kindAny}
}
