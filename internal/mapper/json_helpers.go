package mapper

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// JSON column helpers shared by the mappers. Unmarshal failures degrade to
// empty values: a corrupt audit blob should not make a row unreadable.

func toJSONStrings(values []string) datatypes.JSON {
	if values == nil {
		values = []string{}
	}
	b, _ := json.Marshal(values)
	return datatypes.JSON(b)
}

func fromJSONStrings(data datatypes.JSON) []string {
	var values []string
	if len(data) == 0 {
		return []string{}
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return []string{}
	}
	return values
}

func toJSONUUIDs(ids []uuid.UUID) datatypes.JSON {
	if ids == nil {
		ids = []uuid.UUID{}
	}
	b, _ := json.Marshal(ids)
	return datatypes.JSON(b)
}

func fromJSONUUIDs(data datatypes.JSON) []uuid.UUID {
	var ids []uuid.UUID
	if len(data) == 0 {
		return []uuid.UUID{}
	}
	if err := json.Unmarshal(data, &ids); err != nil {
		return []uuid.UUID{}
	}
	return ids
}

func toJSONMap(m map[string]interface{}) datatypes.JSON {
	if m == nil {
		m = map[string]interface{}{}
	}
	b, _ := json.Marshal(m)
	return datatypes.JSON(b)
}

func fromJSONMap(data datatypes.JSON) map[string]interface{} {
	m := map[string]interface{}{}
	if len(data) == 0 {
		return m
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return map[string]interface{}{}
	}
	return m
}
