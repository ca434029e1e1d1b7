package mqtt

import (
	"testing"
)

func marker(i int) bufferedMsg {
	return bufferedMsg{topic: Topic, payload: []byte{byte(i)}}
}

func TestOutboxEmptyTake(t *testing.T) {
	o := newOutbox(10)
	got, dropped := o.take()
	if got != nil || dropped != 0 {
		t.Errorf("expected nothing from empty outbox, got %d items, %d dropped", len(got), dropped)
	}
}

func TestOutboxKeepsOrder(t *testing.T) {
	o := newOutbox(10)
	for i := 0; i < 5; i++ {
		o.add(marker(i))
	}
	if o.len() != 5 {
		t.Fatalf("len: got %d, want 5", o.len())
	}

	got, dropped := o.take()
	if len(got) != 5 || dropped != 0 {
		t.Fatalf("got %d items, %d dropped; want 5, 0", len(got), dropped)
	}
	for i := range got {
		if got[i].payload[0] != byte(i) {
			t.Errorf("item %d: got payload %d", i, got[i].payload[0])
		}
	}

	if got, _ := o.take(); got != nil {
		t.Errorf("expected empty second take, got %d items", len(got))
	}
}

func TestOutboxDropsOldestWhenFull(t *testing.T) {
	o := newOutbox(5)
	// 0..7: the oldest three are dropped
	for i := 0; i < 8; i++ {
		o.add(marker(i))
	}

	got, dropped := o.take()
	if dropped != 3 {
		t.Errorf("dropped: got %d, want 3", dropped)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 items, got %d", len(got))
	}
	for i := range got {
		if want := byte(i + 3); got[i].payload[0] != want {
			t.Errorf("item %d: got payload %d, want %d", i, got[i].payload[0], want)
		}
	}

	// drop counter resets with take
	o.add(marker(9))
	if _, dropped := o.take(); dropped != 0 {
		t.Errorf("dropped after take: got %d, want 0", dropped)
	}
}

func TestOutboxRetainedSupersedes(t *testing.T) {
	o := newOutbox(10)
	o.add(bufferedMsg{topic: TopicSystem, payload: []byte("startup"), qos: 1, retained: true})
	o.add(marker(1))
	o.add(bufferedMsg{topic: TopicSystem, payload: []byte("heartbeat"), qos: 1})
	o.add(bufferedMsg{topic: TopicSystem, payload: []byte("shutdown"), qos: 1, retained: true})

	got, _ := o.take()
	want := []string{"\x01", "heartbeat", "shutdown"}
	if len(got) != len(want) {
		t.Fatalf("got %d items, want %d", len(got), len(want))
	}
	for i := range want {
		if string(got[i].payload) != want[i] {
			t.Errorf("item %d: got %q, want %q", i, got[i].payload, want[i])
		}
	}
}

func TestOutboxRetainedOnOtherTopicKept(t *testing.T) {
	o := newOutbox(10)
	o.add(bufferedMsg{topic: "wordclock/a", retained: true})
	o.add(bufferedMsg{topic: "wordclock/b", retained: true})
	if o.len() != 2 {
		t.Errorf("len: got %d, want 2", o.len())
	}
}

func TestOutboxSupersedeAtLimit(t *testing.T) {
	o := newOutbox(2)
	o.add(bufferedMsg{topic: TopicSystem, payload: []byte("old"), retained: true})
	o.add(marker(1))
	o.add(bufferedMsg{topic: TopicSystem, payload: []byte("new"), retained: true})

	got, dropped := o.take()
	if dropped != 0 {
		t.Errorf("replacing a retained message should not drop, got %d", dropped)
	}
	if len(got) != 2 || string(got[1].payload) != "new" {
		t.Errorf("unexpected contents: %+v", got)
	}
}
