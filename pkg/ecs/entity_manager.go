package ecs

import (
	"reflect"
	"sort"
)

// EntityID 是实体的唯一标识符，0 为无效 ID
type EntityID uint64

// EntityManager 管理舞台上所有实体和组件
//
// 组件按类型分列存储（组件类型 -> 实体 -> 组件），查询时从最小的一列开始过滤。
// 查询结果按实体 ID 升序返回，保证同一帧内的遍历顺序稳定
// （渲染层级相同的精灵按创建顺序绘制）。
type EntityManager struct {
	nextID   EntityID
	entities map[EntityID]struct{}
	columns  map[reflect.Type]map[EntityID]interface{}
	// 待删除的实体ID列表
	entitiesToDestroy []EntityID
}

// NewEntityManager 创建一个新的 EntityManager 实例
func NewEntityManager() *EntityManager {
	return &EntityManager{
		nextID:   1,
		entities: make(map[EntityID]struct{}),
		columns:  make(map[reflect.Type]map[EntityID]interface{}),
	}
}

// CreateEntity 创建新实体并返回唯一ID
func (em *EntityManager) CreateEntity() EntityID {
	id := em.nextID
	em.nextID++
	em.entities[id] = struct{}{}
	return id
}

// Exists 实体是否存在（已标记删除但未清理的实体仍视为存在）
func (em *EntityManager) Exists(id EntityID) bool {
	_, ok := em.entities[id]
	return ok
}

// Count 返回实体数量
func (em *EntityManager) Count() int {
	return len(em.entities)
}

// DestroyEntity 标记实体待删除，在 RemoveMarkedEntities 时清理
func (em *EntityManager) DestroyEntity(id EntityID) {
	em.entitiesToDestroy = append(em.entitiesToDestroy, id)
}

// AddComponent 为实体添加组件，同类型组件会被替换；实体不存在时忽略
func (em *EntityManager) AddComponent(id EntityID, component interface{}) {
	em.put(reflect.TypeOf(component), id, component)
}

// RemoveComponent 从实体移除指定类型的组件
func (em *EntityManager) RemoveComponent(id EntityID, componentType reflect.Type) {
	if column, ok := em.columns[componentType]; ok {
		delete(column, id)
	}
}

// GetComponent 获取实体的特定类型组件
func (em *EntityManager) GetComponent(id EntityID, componentType reflect.Type) (interface{}, bool) {
	comp, ok := em.columns[componentType][id]
	return comp, ok
}

// HasComponent 检查实体是否拥有特定类型组件
func (em *EntityManager) HasComponent(id EntityID, componentType reflect.Type) bool {
	_, ok := em.columns[componentType][id]
	return ok
}

// RemoveMarkedEntities 清理所有标记删除的实体及其组件
func (em *EntityManager) RemoveMarkedEntities() {
	for _, id := range em.entitiesToDestroy {
		delete(em.entities, id)
		for _, column := range em.columns {
			delete(column, id)
		}
	}
	em.entitiesToDestroy = em.entitiesToDestroy[:0]
}

// GetEntitiesWith 查询拥有指定组件类型组合的所有实体
// 参数: componentTypes ...reflect.Type - 需要的组件类型列表（为空时返回全部实体）
// 返回: []EntityID - 满足条件的实体ID列表（按 ID 升序）
func (em *EntityManager) GetEntitiesWith(componentTypes ...reflect.Type) []EntityID {
	result := make([]EntityID, 0)

	if len(componentTypes) == 0 {
		for id := range em.entities {
			result = append(result, id)
		}
		sortIDs(result)
		return result
	}

	// 从最小的一列开始
	columns := make([]map[EntityID]interface{}, len(componentTypes))
	for i, ct := range componentTypes {
		column, ok := em.columns[ct]
		if !ok || len(column) == 0 {
			return result
		}
		columns[i] = column
	}
	sort.Slice(columns, func(i, j int) bool { return len(columns[i]) < len(columns[j]) })

	for id := range columns[0] {
		hasAll := true
		for _, column := range columns[1:] {
			if _, found := column[id]; !found {
				hasAll = false
				break
			}
		}
		if hasAll {
			result = append(result, id)
		}
	}

	sortIDs(result)
	return result
}

// put 写入组件列
func (em *EntityManager) put(componentType reflect.Type, id EntityID, component interface{}) {
	if _, ok := em.entities[id]; !ok {
		return
	}
	column, ok := em.columns[componentType]
	if !ok {
		column = make(map[EntityID]interface{})
		em.columns[componentType] = column
	}
	column[id] = component
}

func sortIDs(ids []EntityID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
