package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/archecs/ecs"
)

func NewComponentInspectorComponent() ComponentInspectorComponent {
	return ComponentInspectorComponent{}
}

func (ci *ComponentInspectorComponent) Render(registry *ecs.Registry, selectedEntityId ecs.EntityId) {
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	ci.selectedEntityId = selectedEntityId

	if ci.selectedEntityId == 0 {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}

	archetypeId, err := registry.ArchetypeOf(ci.selectedEntityId)
	if err != nil {
		imgui.Text(fmt.Sprintf("Entity %d not found", ci.selectedEntityId))
		imgui.End()
		return
	}
	archetype, ok := registry.ArchetypeByID(archetypeId)
	if !ok {
		imgui.Text(fmt.Sprintf("Entity %d not found (invalid archetype)", ci.selectedEntityId))
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Entity ID: %d", ci.selectedEntityId))
	imgui.Text(fmt.Sprintf("Archetype: 0x%X", archetypeId))
	imgui.Separator()

	for _, compType := range archetype.Types() {
		component, err := ecs.GetDynamic(registry, ci.selectedEntityId, compType)
		if err != nil {
			continue
		}

		if imgui.TreeNodeStr(compType.String()) {
			ci.renderComponent(component, compType, registry, ci.selectedEntityId)
			imgui.TreePop()
		}
	}

	imgui.End()
}

func (ci *ComponentInspectorComponent) renderComponent(component any, compType reflect.Type, registry *ecs.Registry, entityId ecs.EntityId) {
	val := reflect.ValueOf(component)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	fields := globalReflectionCache.GetFields(compType)

	for _, field := range fields {
		fieldVal := val.Field(field.Index)
		if field.IsPointer && !fieldVal.IsNil() {
			fieldVal = fieldVal.Elem()
		}

		ci.renderField(field.Name, fieldVal, field, registry, entityId, compType)
	}
}

func (ci *ComponentInspectorComponent) renderField(name string, val reflect.Value, field FieldInfo, registry *ecs.Registry, entityId ecs.EntityId, compType reflect.Type) {
	if !val.IsValid() {
		imgui.Text(fmt.Sprintf("%s: <invalid>", name))
		return
	}

	if field.IsPointer && val.IsNil() {
		imgui.Text(fmt.Sprintf("%s: nil", name))
		return
	}

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) {
			ci.updateIntField(registry, entityId, compType, field.Index, int64(v), val.Type())
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(val.Uint())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) {
			if v >= 0 {
				ci.updateUintField(registry, entityId, compType, field.Index, uint64(v), val.Type())
			}
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(fmt.Sprintf("##%s", name), &v) {
			ci.updateFloatField(registry, entityId, compType, field.Index, float64(v), val.Type())
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name, &v) {
			ci.updateBoolField(registry, entityId, compType, field.Index, v)
		}

	case reflect.String:
		v := val.String()
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(200)
		if imgui.InputTextWithHint(fmt.Sprintf("##%s", name), "", &v, imgui.InputTextFlagsNone, nil) {
			ci.updateStringField(registry, entityId, compType, field.Index, v)
		}

	case reflect.Struct:
		if imgui.TreeNodeStr(name) {
			nestedFields := globalReflectionCache.GetFields(val.Type())
			for _, nf := range nestedFields {
				nestedVal := val.Field(nf.Index)
				if nf.IsPointer && !nestedVal.IsNil() {
					nestedVal = nestedVal.Elem()
				}
				ci.renderField(nf.Name, nestedVal, nf, registry, entityId, compType)
			}
			imgui.TreePop()
		}

	case reflect.Slice:
		imgui.Text(fmt.Sprintf("%s: [%d items]", name, val.Len()))

	case reflect.Map:
		imgui.Text(fmt.Sprintf("%s: map[%d items]", name, val.Len()))

	default:
		imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
	}
}

func (ci *ComponentInspectorComponent) updateIntField(registry *ecs.Registry, entityId ecs.EntityId, compType reflect.Type, fieldIdx int, value int64, fieldType reflect.Type) {
	component, err := ecs.GetDynamic(registry, entityId, compType)
	if err != nil {
		return
	}

	val := reflect.ValueOf(component)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	field := val.Field(fieldIdx)
	if field.CanSet() {
		switch fieldType.Kind() {
		case reflect.Int:
			field.SetInt(value)
		case reflect.Int8:
			field.SetInt(value)
		case reflect.Int16:
			field.SetInt(value)
		case reflect.Int32:
			field.SetInt(value)
		case reflect.Int64:
			field.SetInt(value)
		}
	}
}

func (ci *ComponentInspectorComponent) updateUintField(registry *ecs.Registry, entityId ecs.EntityId, compType reflect.Type, fieldIdx int, value uint64, fieldType reflect.Type) {
	component, err := ecs.GetDynamic(registry, entityId, compType)
	if err != nil {
		return
	}

	val := reflect.ValueOf(component)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	field := val.Field(fieldIdx)
	if field.CanSet() {
		field.SetUint(value)
	}
}

func (ci *ComponentInspectorComponent) updateFloatField(registry *ecs.Registry, entityId ecs.EntityId, compType reflect.Type, fieldIdx int, value float64, fieldType reflect.Type) {
	component, err := ecs.GetDynamic(registry, entityId, compType)
	if err != nil {
		return
	}

	val := reflect.ValueOf(component)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	field := val.Field(fieldIdx)
	if field.CanSet() {
		field.SetFloat(value)
	}
}

func (ci *ComponentInspectorComponent) updateBoolField(registry *ecs.Registry, entityId ecs.EntityId, compType reflect.Type, fieldIdx int, value bool) {
	component, err := ecs.GetDynamic(registry, entityId, compType)
	if err != nil {
		return
	}

	val := reflect.ValueOf(component)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	field := val.Field(fieldIdx)
	if field.CanSet() {
		field.SetBool(value)
	}
}

func (ci *ComponentInspectorComponent) updateStringField(registry *ecs.Registry, entityId ecs.EntityId, compType reflect.Type, fieldIdx int, value string) {
	component, err := ecs.GetDynamic(registry, entityId, compType)
	if err != nil {
		return
	}

	val := reflect.ValueOf(component)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	field := val.Field(fieldIdx)
	if field.CanSet() {
		field.SetString(value)
	}
}
