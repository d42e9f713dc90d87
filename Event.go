/*
Copyright 2011-2024 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package zling

import (
	"fmt"
	"time"
)

const (
	EVT_COMPRESSION_START   = 0 // Compression starts
	EVT_DECOMPRESSION_START = 1 // Decompression starts
	EVT_BEFORE_ROLZ         = 2 // ROLZ forward/inverse starts
	EVT_AFTER_ROLZ          = 3 // ROLZ forward/inverse ends
	EVT_BEFORE_POLAR        = 4 // Polar encoding/decoding starts
	EVT_AFTER_POLAR         = 5 // Polar encoding/decoding ends
	EVT_COMPRESSION_END     = 6 // Compression ends
	EVT_DECOMPRESSION_END   = 7 // Decompression ends
	EVT_BLOCK_INFO          = 8 // Display block information
)

// Event a compression/decompression event, emitted for diagnostic
// purposes only. Never carries data destined for the block output
// stream (see package io).
type Event struct {
	eventType int
	id        int // block index, or -1 for run-level events
	size      int64
	eventTime time.Time
	msg       string
}

// NewEventFromString creates a new Event instance that wraps a message
func NewEventFromString(evtType, id int, msg string, evtTime time.Time) *Event {
	if evtTime.IsZero() {
		evtTime = time.Now()
	}

	return &Event{eventType: evtType, id: id, msg: msg, eventTime: evtTime}
}

// NewEvent creates a new Event instance carrying a byte count
func NewEvent(evtType, id int, size int64, evtTime time.Time) *Event {
	if evtTime.IsZero() {
		evtTime = time.Now()
	}

	return &Event{eventType: evtType, id: id, size: size, eventTime: evtTime}
}

// Type returns the type info
func (this *Event) Type() int {
	return this.eventType
}

// ID returns the block index, or -1 for a run-level event
func (this *Event) ID() int {
	return this.id
}

// Time returns the time info
func (this *Event) Time() time.Time {
	return this.eventTime
}

// Size returns the byte count associated with the event, if any
func (this *Event) Size() int64 {
	return this.size
}

// String returns a string representation of this event.
// If the event wraps a message, the message is returned.
// Otherwise a string is built from the fields.
func (this *Event) String() string {
	if len(this.msg) > 0 {
		return this.msg
	}

	id := ""
	t := ""

	if this.id >= 0 {
		id = fmt.Sprintf(", \"id\": %d", this.id)
	}

	switch this.eventType {
	case EVT_BEFORE_ROLZ:
		t = "BEFORE_ROLZ"

	case EVT_AFTER_ROLZ:
		t = "AFTER_ROLZ"

	case EVT_BEFORE_POLAR:
		t = "BEFORE_POLAR"

	case EVT_AFTER_POLAR:
		t = "AFTER_POLAR"

	case EVT_COMPRESSION_START:
		t = "COMPRESSION_START"

	case EVT_DECOMPRESSION_START:
		t = "DECOMPRESSION_START"

	case EVT_COMPRESSION_END:
		t = "COMPRESSION_END"

	case EVT_DECOMPRESSION_END:
		t = "DECOMPRESSION_END"

	case EVT_BLOCK_INFO:
		t = "BLOCK_INFO"
	}

	return fmt.Sprintf("{ \"type\":\"%s\"%s, \"size\":%d, \"time\":%d }", t, id, this.size,
		this.eventTime.UnixNano()/1000000)
}

// Listener is an interface implemented by event processors
type Listener interface {
	// ProcessEvent is the method called whenever a Listener receives an event.
	ProcessEvent(evt *Event)
}
