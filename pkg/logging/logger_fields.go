package logging

import (
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Field helpers for names that recur across the pipeline

func Component(name string) Field {
	return String("component", name)
}

func Source(tag string) Field {
	return String("source", tag)
}

func Count(n int) Field {
	return Int("count", n)
}

func Removed(n int) Field {
	return Int("removed", n)
}

func Nodes(n int) Field {
	return Int("nodes", n)
}

func Edges(n int) Field {
	return Int("edges", n)
}

func Components(n int) Field {
	return Int("components", n)
}

func NodeID(id string) Field {
	return String("node_id", id)
}

func SectionID(id string) Field {
	return String("section_id", id)
}

func Path(p string) Field {
	return String("path", p)
}
