package ecs

import "reflect"

// 泛型组件访问 API
//
// 系统代码统一使用泛型版本：
//
//	pos, ok := ecs.GetComponent[*components.PositionComponent](em, id)
//	ids := ecs.GetEntitiesWith2[*components.SpriteComponent, *components.PositionComponent](em)

// typeOf 返回类型参数对应的 reflect.Type
func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// AddComponent 为实体添加组件
func AddComponent[T any](em *EntityManager, id EntityID, component T) {
	em.put(typeOf[T](), id, component)
}

// GetComponent 获取实体的特定类型组件
func GetComponent[T any](em *EntityManager, id EntityID) (T, bool) {
	var zero T
	comp, found := em.columns[typeOf[T]()][id]
	if !found {
		return zero, false
	}
	typed, ok := comp.(T)
	return typed, ok
}

// HasComponent 检查实体是否拥有特定类型组件
func HasComponent[T any](em *EntityManager, id EntityID) bool {
	return em.HasComponent(id, typeOf[T]())
}

// RemoveComponent 从实体移除指定类型的组件
func RemoveComponent[T any](em *EntityManager, id EntityID) {
	em.RemoveComponent(id, typeOf[T]())
}

// GetEntitiesWith1 查询拥有组件 A 的实体
func GetEntitiesWith1[A any](em *EntityManager) []EntityID {
	return em.GetEntitiesWith(typeOf[A]())
}

// GetEntitiesWith2 查询同时拥有组件 A、B 的实体
func GetEntitiesWith2[A, B any](em *EntityManager) []EntityID {
	return em.GetEntitiesWith(typeOf[A](), typeOf[B]())
}

// GetEntitiesWith3 查询同时拥有组件 A、B、C 的实体
func GetEntitiesWith3[A, B, C any](em *EntityManager) []EntityID {
	return em.GetEntitiesWith(typeOf[A](), typeOf[B](), typeOf[C]())
}
