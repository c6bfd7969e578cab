package builder

import (
	"strings"

	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/platinummonkey/coral/pkg/graph"
)

func messageFields(msg *descriptorpb.DescriptorProto) []graph.Field {
	fields := make([]graph.Field, 0, len(msg.GetField()))
	for _, f := range msg.GetField() {
		fields = append(fields, graph.Field{
			Name:     f.GetName(),
			Number:   f.GetNumber(),
			TypeName: fieldTypeName(f),
			Label:    fieldLabel(f),
		})
	}
	return fields
}

// fieldTypeName resolves a field's display type. An explicit type-name
// reference wins (shortened to its last segment); otherwise the declared
// wire type maps to its canonical lowercase name. The wire type is checked
// for presence rather than read through the getter because the getter's
// proto2 default would report an absent type as double.
func fieldTypeName(f *descriptorpb.FieldDescriptorProto) string {
	if name := f.GetTypeName(); name != "" {
		return shortName(name)
	}
	if f.Type == nil {
		return "unknown"
	}
	switch *f.Type {
	case descriptorpb.FieldDescriptorProto_TYPE_DOUBLE:
		return "double"
	case descriptorpb.FieldDescriptorProto_TYPE_FLOAT:
		return "float"
	case descriptorpb.FieldDescriptorProto_TYPE_INT64:
		return "int64"
	case descriptorpb.FieldDescriptorProto_TYPE_UINT64:
		return "uint64"
	case descriptorpb.FieldDescriptorProto_TYPE_INT32:
		return "int32"
	case descriptorpb.FieldDescriptorProto_TYPE_FIXED64:
		return "fixed64"
	case descriptorpb.FieldDescriptorProto_TYPE_FIXED32:
		return "fixed32"
	case descriptorpb.FieldDescriptorProto_TYPE_BOOL:
		return "bool"
	case descriptorpb.FieldDescriptorProto_TYPE_STRING:
		return "string"
	case descriptorpb.FieldDescriptorProto_TYPE_GROUP:
		return "group"
	case descriptorpb.FieldDescriptorProto_TYPE_MESSAGE:
		return "message"
	case descriptorpb.FieldDescriptorProto_TYPE_BYTES:
		return "bytes"
	case descriptorpb.FieldDescriptorProto_TYPE_UINT32:
		return "uint32"
	case descriptorpb.FieldDescriptorProto_TYPE_ENUM:
		return "enum"
	case descriptorpb.FieldDescriptorProto_TYPE_SFIXED32:
		return "sfixed32"
	case descriptorpb.FieldDescriptorProto_TYPE_SFIXED64:
		return "sfixed64"
	case descriptorpb.FieldDescriptorProto_TYPE_SINT32:
		return "sint32"
	case descriptorpb.FieldDescriptorProto_TYPE_SINT64:
		return "sint64"
	default:
		return "unknown"
	}
}

func fieldLabel(f *descriptorpb.FieldDescriptorProto) string {
	switch f.GetLabel() {
	case descriptorpb.FieldDescriptorProto_LABEL_REQUIRED:
		return "required"
	case descriptorpb.FieldDescriptorProto_LABEL_REPEATED:
		return "repeated"
	default:
		return "optional"
	}
}

// shortName returns the last dot segment of a fully qualified name:
// ".user.v1.GetUserRequest" → "GetUserRequest".
func shortName(fqn string) string {
	if i := strings.LastIndex(fqn, "."); i >= 0 {
		return fqn[i+1:]
	}
	return fqn
}

func trimDot(fqn string) string {
	return strings.TrimPrefix(fqn, ".")
}

func joinName(scope, name string) string {
	if scope == "" {
		return name
	}
	return scope + "." + name
}

// splitLastDot splits a fully qualified name into package and short name.
// A name with no dot has an empty package.
func splitLastDot(fqn string) (pkg, name string) {
	if i := strings.LastIndex(fqn, "."); i >= 0 {
		return fqn[:i], fqn[i+1:]
	}
	return "", fqn
}

func externalFile(pkg, label string) string {
	file := strings.ToLower(label) + ".proto"
	if pkg == "" {
		return file
	}
	return strings.ReplaceAll(pkg, ".", "/") + "/" + file
}
