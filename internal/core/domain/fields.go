package domain

// FieldType is the declared data type of a remote custom-field
// definition.
type FieldType string

const (
	FieldTypeString   FieldType = "string"
	FieldTypeInteger  FieldType = "integer"
	FieldTypeURL      FieldType = "url"
	FieldTypeDate     FieldType = "date"
	FieldTypeMonetary FieldType = "monetary"
)

// FieldSpec maps one metadata key to its remote custom-field label and
// declared type.
type FieldSpec struct {
	Label string    `yaml:"label"`
	Type  FieldType `yaml:"type"`
}

// FieldTable maps metadata source keys to custom-field specs. The
// compiled-in default can be overridden from a YAML file.
type FieldTable map[string]FieldSpec

func DefaultFieldTable() FieldTable {
	return FieldTable{
		"author":       {Label: "Author", Type: FieldTypeString},
		"organization": {Label: "Organization", Type: FieldTypeString},
		"description":  {Label: "Description", Type: FieldTypeString},
		"language":     {Label: "Language", Type: FieldTypeString},
		"url":          {Label: "Source URL", Type: FieldTypeURL},
		"year":         {Label: "Year", Type: FieldTypeInteger},
	}
}
