package ecs

import (
	"strconv"

	"go.uber.org/zap/zapcore"
)

// Entity packs a slot index (low 32 bits) and the slot's generation (high 32
// bits). The zero Entity is never issued.
type Entity uint64

type entityID uint32
type generation uint32

const entityIDBits = 32

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<entityIDBits | uint64(id))
}

func (e Entity) id() entityID {
	return entityID(uint32(e))
}

func (e Entity) generation() generation {
	return generation(uint32(uint64(e) >> entityIDBits))
}

// String renders the entity as slot.generation, e.g. "3.1".
func (e Entity) String() string {
	return strconv.FormatUint(uint64(e.id()), 10) + "." + strconv.FormatUint(uint64(e.generation()), 10)
}

func (e Entity) Valid() bool {
	return e.id() != 0
}

// MarshalLogObject lets entities be logged with zap.Object.
func (e Entity) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint32("id", uint32(e.id()))
	enc.AddUint32("gen", uint32(e.generation()))
	return nil
}
