package ecs

import (
	"reflect"
	"testing"
)

// 测试组件类型定义
type testPositionComponent struct {
	X, Y float64
}

type testAlphaComponent struct {
	Alpha float64
}

type testLayerComponent struct {
	Layer int
}

func TestCreateEntity(t *testing.T) {
	em := NewEntityManager()
	id1 := em.CreateEntity()
	id2 := em.CreateEntity()

	// ID 从 1 开始且唯一
	if id1 != 1 || id2 != 2 {
		t.Errorf("expected ids 1 and 2, got %d and %d", id1, id2)
	}
	if !em.Exists(id1) || em.Count() != 2 {
		t.Error("created entities should exist")
	}
}

func TestGenericAddAndGetComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	AddComponent(em, id, &testPositionComponent{X: 100, Y: 200})

	pos, ok := GetComponent[*testPositionComponent](em, id)
	if !ok {
		t.Fatal("component should be found")
	}
	if pos.X != 100 || pos.Y != 200 {
		t.Errorf("component data mismatch, got (%f, %f)", pos.X, pos.Y)
	}

	// 泛型与反射 API 使用同一个类型键
	if !em.HasComponent(id, reflect.TypeOf(&testPositionComponent{})) {
		t.Error("reflection API should see component added via generic API")
	}

	if _, ok := GetComponent[*testAlphaComponent](em, id); ok {
		t.Error("missing component should not be found")
	}
}

func TestAddComponentReplacesSameType(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	AddComponent(em, id, &testAlphaComponent{Alpha: 0})
	AddComponent(em, id, &testAlphaComponent{Alpha: 1})

	alpha, _ := GetComponent[*testAlphaComponent](em, id)
	if alpha.Alpha != 1 {
		t.Errorf("expected replaced component, got alpha %f", alpha.Alpha)
	}
}

func TestRemoveComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	AddComponent(em, id, &testAlphaComponent{})

	RemoveComponent[*testAlphaComponent](em, id)
	if HasComponent[*testAlphaComponent](em, id) {
		t.Error("component should be removed")
	}
}

func TestDestroyEntityIsDeferred(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	AddComponent(em, id, &testPositionComponent{})

	em.DestroyEntity(id)

	// 清理前实体仍存在
	if !em.Exists(id) {
		t.Error("entity should still exist before cleanup")
	}

	em.RemoveMarkedEntities()
	if em.Exists(id) || HasComponent[*testPositionComponent](em, id) {
		t.Error("entity should be removed after cleanup")
	}
}

func TestQueriesAreOrderedByID(t *testing.T) {
	em := NewEntityManager()

	var ids []EntityID
	for i := 0; i < 20; i++ {
		id := em.CreateEntity()
		AddComponent(em, id, &testPositionComponent{})
		if i%2 == 0 {
			AddComponent(em, id, &testAlphaComponent{})
			ids = append(ids, id)
		}
	}

	got := GetEntitiesWith2[*testPositionComponent, *testAlphaComponent](em)
	if !reflect.DeepEqual(got, ids) {
		t.Errorf("expected ordered ids %v, got %v", ids, got)
	}

	all := GetEntitiesWith1[*testPositionComponent](em)
	for i := 1; i < len(all); i++ {
		if all[i-1] >= all[i] {
			t.Fatalf("query result not sorted: %v", all)
		}
	}
}

func TestGetEntitiesWith3(t *testing.T) {
	em := NewEntityManager()

	full := em.CreateEntity()
	AddComponent(em, full, &testPositionComponent{})
	AddComponent(em, full, &testAlphaComponent{})
	AddComponent(em, full, &testLayerComponent{})

	partial := em.CreateEntity()
	AddComponent(em, partial, &testPositionComponent{})
	AddComponent(em, partial, &testLayerComponent{})

	got := GetEntitiesWith3[*testPositionComponent, *testAlphaComponent, *testLayerComponent](em)
	if len(got) != 1 || got[0] != full {
		t.Errorf("expected only entity %d, got %v", full, got)
	}
}

func TestAddComponentToMissingEntity(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	em.DestroyEntity(id)
	em.RemoveMarkedEntities()

	AddComponent(em, id, &testAlphaComponent{})
	em.AddComponent(EntityID(99), &testAlphaComponent{})
	if got := GetEntitiesWith1[*testAlphaComponent](em); len(got) != 0 {
		t.Errorf("components on missing entities should be ignored, got %v", got)
	}
}

func TestGetEntitiesWithNoTypes(t *testing.T) {
	em := NewEntityManager()
	a := em.CreateEntity()
	b := em.CreateEntity()

	if got := em.GetEntitiesWith(); !reflect.DeepEqual(got, []EntityID{a, b}) {
		t.Errorf("expected all entities, got %v", got)
	}
	if got := GetEntitiesWith1[*testLayerComponent](em); len(got) != 0 {
		t.Errorf("unused component type should match nothing, got %v", got)
	}
}
