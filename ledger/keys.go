package ledger

import (
	"strconv"

	"github.com/eventpay-xyz/go-eventpay/store"
)

// Storage keys, namespace tag first so namespaces can never collide.

func configKey() store.Key {
	return store.NewKey("config")
}

func eventKey(eventID uint64) store.Key {
	return store.NewKey("event", eventID10(eventID))
}

func eventNameKey(name string) store.Key {
	return store.NewKey("event_name", name)
}

func eventFeeKey(eventID uint64) store.Key {
	return store.NewKey("event_fee", eventID10(eventID))
}

func registrationKey(eventID uint64, wallet string) store.Key {
	return store.NewKey("registered", eventID10(eventID), wallet)
}

func eventID10(eventID uint64) string {
	return strconv.FormatUint(eventID, 10)
}
