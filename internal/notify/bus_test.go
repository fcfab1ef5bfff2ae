package notify

import (
	"reflect"
	"testing"

	"github.com/julianstephens/lifelog/internal/constants"
)

func TestPublishOrder(t *testing.T) {
	bus := New()
	var got []string
	bus.Subscribe(func(ev Event) { got = append(got, "a:"+string(ev.Kind)) })
	bus.Subscribe(func(ev Event) { got = append(got, "b:"+string(ev.Kind)) })

	bus.Publish(Event{Kind: constants.KindMood})

	want := []string{"a:mood", "b:mood"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("delivery = %v, want %v", got, want)
	}
}

func TestUnsubscribeIdempotent(t *testing.T) {
	bus := New()
	calls := 0
	unsubA := bus.Subscribe(func(Event) { calls++ })
	bus.Subscribe(func(Event) { calls += 10 })

	unsubA()
	unsubA()
	if bus.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", bus.Len())
	}

	bus.Publish(Event{Kind: constants.KindHabit})
	if calls != 10 {
		t.Errorf("calls = %d, want 10", calls)
	}
}

func TestSubscribeKinds(t *testing.T) {
	bus := New()
	var got []constants.EntityKind
	bus.SubscribeKinds(func(ev Event) { got = append(got, ev.Kind) }, constants.KindHabit, constants.KindHabitEntry)

	bus.Publish(Event{Kind: constants.KindExpense})
	bus.Publish(Event{Kind: constants.KindHabitEntry})
	bus.Publish(Event{Kind: constants.KindHabit})

	want := []constants.EntityKind{constants.KindHabitEntry, constants.KindHabit}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("filtered = %v, want %v", got, want)
	}
}

func TestUnsubscribeDuringPublish(t *testing.T) {
	bus := New()
	calls := 0
	var unsub func()
	unsub = bus.Subscribe(func(Event) {
		calls++
		unsub()
	})

	bus.Publish(Event{Kind: constants.KindMood})
	bus.Publish(Event{Kind: constants.KindMood})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestNilBusPublish(t *testing.T) {
	var bus *Bus
	bus.Publish(Event{Kind: constants.KindMood})
}
