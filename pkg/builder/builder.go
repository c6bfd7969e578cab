package builder

import (
	"sort"
	"strings"

	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/platinummonkey/coral/pkg/graph"
)

// DefaultExternalPrefixes lists the file path prefixes treated as external
// shared-schema namespaces.
var DefaultExternalPrefixes = []string{"google/", "buf/"}

// Builder converts FileDescriptorSets into graph models. A Builder is
// stateless across calls and safe for concurrent use.
type Builder struct {
	externalPrefixes []string
}

// New returns a builder using DefaultExternalPrefixes.
func New() *Builder {
	return NewWithPrefixes(DefaultExternalPrefixes)
}

// NewWithPrefixes returns a builder that classifies files under the given
// path prefixes as external.
func NewWithPrefixes(prefixes []string) *Builder {
	return &Builder{externalPrefixes: prefixes}
}

// Build resolves the descriptor set into a graph model. It never fails:
// nameless files and definitions are skipped and unresolvable references
// produce no edges.
func (b *Builder) Build(fds *descriptorpb.FileDescriptorSet) *graph.Model {
	st := newBuild()
	files := fds.GetFile()

	// Pass 1: register every definition under its fully qualified name.
	// Internal files emit Message/Enum nodes as they register; external
	// files only register so references to them can resolve later.
	for _, file := range files {
		st.collectDefinitions(file, b.isExternal(file.GetName()))
	}

	// Pass 2: service nodes. Needs the message definitions from pass 1 so
	// request/response shapes can be embedded in the service details.
	for _, file := range files {
		if b.isExternal(file.GetName()) {
			continue
		}
		st.collectServices(file)
	}

	// Pass 3: edges for method and field type references. External targets
	// materialize here, on first reference.
	for _, file := range files {
		if b.isExternal(file.GetName()) {
			continue
		}
		st.collectEdges(file)
	}

	st.model.Edges = dedupEdges(st.model.Edges)
	st.model.Packages = groupPackages(st.model.Nodes)
	return st.model
}

func (b *Builder) isExternal(file string) bool {
	for _, prefix := range b.externalPrefixes {
		if strings.HasPrefix(file, prefix) {
			return true
		}
	}
	return false
}

// build holds the resolution state for one Build call.
type build struct {
	model *graph.Model

	// ids maps fully qualified type names to node ids. Both sides use the
	// same dot-joined form; membership is what makes a reference resolvable.
	ids map[string]string

	// defs maps fully qualified message names to their definitions for
	// embedding into service details.
	defs map[string]graph.MessageDef

	// externalPackages holds package names declared by external files.
	externalPackages map[string]struct{}

	// present tracks node ids already emitted into the model.
	present map[string]struct{}
}

func newBuild() *build {
	return &build{
		model:            graph.NewModel(),
		ids:              make(map[string]string),
		defs:             make(map[string]graph.MessageDef),
		externalPackages: make(map[string]struct{}),
		present:          make(map[string]struct{}),
	}
}

func (s *build) collectDefinitions(file *descriptorpb.FileDescriptorProto, external bool) {
	if file.GetName() == "" {
		return
	}
	pkg := file.GetPackage()
	if external {
		s.externalPackages[pkg] = struct{}{}
	}
	for _, msg := range file.GetMessageType() {
		s.registerMessage(pkg, msg, pkg, file.GetName(), !external)
	}
	for _, enum := range file.GetEnumType() {
		s.registerEnum(pkg, enum, pkg, file.GetName(), !external)
	}
}

// registerMessage registers msg under scope and recurses into nested types.
// scope is the package for top-level messages and the parent's fully
// qualified name below that.
func (s *build) registerMessage(scope string, msg *descriptorpb.DescriptorProto, pkg, file string, emit bool) {
	name := msg.GetName()
	if name == "" {
		return
	}
	fqn := joinName(scope, name)
	s.ids[fqn] = fqn
	def := graph.MessageDef{Name: name, Fields: messageFields(msg)}
	s.defs[fqn] = def
	if emit {
		s.appendNode(graph.Node{
			ID:      fqn,
			Kind:    graph.KindMessage,
			Package: pkg,
			Label:   name,
			File:    file,
			Details: graph.MessageDetails{Fields: def.Fields},
		})
	}
	for _, nested := range msg.GetNestedType() {
		s.registerMessage(fqn, nested, pkg, file, emit)
	}
	for _, enum := range msg.GetEnumType() {
		s.registerEnum(fqn, enum, pkg, file, emit)
	}
}

func (s *build) registerEnum(scope string, enum *descriptorpb.EnumDescriptorProto, pkg, file string, emit bool) {
	name := enum.GetName()
	if name == "" {
		return
	}
	fqn := joinName(scope, name)
	s.ids[fqn] = fqn
	if !emit {
		return
	}
	values := make([]graph.EnumValue, 0, len(enum.GetValue()))
	for _, v := range enum.GetValue() {
		values = append(values, graph.EnumValue{Name: v.GetName(), Number: v.GetNumber()})
	}
	s.appendNode(graph.Node{
		ID:      fqn,
		Kind:    graph.KindEnum,
		Package: pkg,
		Label:   name,
		File:    file,
		Details: graph.EnumDetails{Values: values},
	})
}

func (s *build) collectServices(file *descriptorpb.FileDescriptorProto) {
	if file.GetName() == "" {
		return
	}
	pkg := file.GetPackage()
	for _, svc := range file.GetService() {
		name := svc.GetName()
		if name == "" {
			continue
		}
		methods := make([]graph.Method, 0, len(svc.GetMethod()))
		messages := make([]graph.MessageDef, 0)
		seen := make(map[string]struct{})
		for _, m := range svc.GetMethod() {
			methods = append(methods, graph.Method{
				Name:       m.GetName(),
				InputType:  shortName(m.GetInputType()),
				OutputType: shortName(m.GetOutputType()),
			})
			for _, ref := range []string{m.GetInputType(), m.GetOutputType()} {
				fqn := trimDot(ref)
				if fqn == "" {
					continue
				}
				if _, dup := seen[fqn]; dup {
					continue
				}
				seen[fqn] = struct{}{}
				if def, ok := s.defs[fqn]; ok {
					messages = append(messages, def)
				}
			}
		}
		s.appendNode(graph.Node{
			ID:      joinName(pkg, name),
			Kind:    graph.KindService,
			Package: pkg,
			Label:   name,
			File:    file.GetName(),
			Details: graph.ServiceDetails{Methods: methods, Messages: messages},
		})
	}
}

func (s *build) collectEdges(file *descriptorpb.FileDescriptorProto) {
	if file.GetName() == "" {
		return
	}
	pkg := file.GetPackage()
	for _, svc := range file.GetService() {
		name := svc.GetName()
		if name == "" {
			continue
		}
		source := joinName(pkg, name)
		for _, m := range svc.GetMethod() {
			s.addReferenceEdge(source, m.GetInputType())
			s.addReferenceEdge(source, m.GetOutputType())
		}
	}
	s.collectMessageEdges(pkg, file.GetMessageType())
}

func (s *build) collectMessageEdges(scope string, msgs []*descriptorpb.DescriptorProto) {
	for _, msg := range msgs {
		name := msg.GetName()
		if name == "" {
			continue
		}
		fqn := joinName(scope, name)
		for _, f := range msg.GetField() {
			if ref := f.GetTypeName(); ref != "" {
				s.addReferenceEdge(fqn, ref)
			}
		}
		s.collectMessageEdges(fqn, msg.GetNestedType())
	}
}

// addReferenceEdge emits source → resolved(ref) if ref resolves and a target
// node exists or can be synthesized. Unresolvable references are skipped so
// the model never holds a dangling edge.
func (s *build) addReferenceEdge(source, ref string) {
	fqn := trimDot(ref)
	if fqn == "" {
		return
	}
	target, ok := s.ids[fqn]
	if !ok {
		return
	}
	if _, exists := s.present[target]; !exists && !s.synthesizeExternal(target) {
		return
	}
	s.model.Edges = append(s.model.Edges, graph.Edge{Source: source, Target: target})
}

// synthesizeExternal materializes a node for a type registered from an
// external file. The file path is derived from the package and the
// lowercased type name. Reports whether a node with this id now exists.
func (s *build) synthesizeExternal(id string) bool {
	pkg, label := splitLastDot(id)
	if _, ok := s.externalPackages[pkg]; !ok {
		return false
	}
	s.appendNode(graph.Node{
		ID:      id,
		Kind:    graph.KindExternal,
		Package: pkg,
		Label:   label,
		File:    externalFile(pkg, label),
		Details: graph.ExternalDetails{},
	})
	return true
}

// appendNode adds the node unless one with the same id already exists.
func (s *build) appendNode(n graph.Node) {
	if _, ok := s.present[n.ID]; ok {
		return
	}
	s.present[n.ID] = struct{}{}
	s.model.Nodes = append(s.model.Nodes, n)
}

func dedupEdges(edges []graph.Edge) []graph.Edge {
	seen := make(map[graph.Edge]struct{}, len(edges))
	deduped := make([]graph.Edge, 0, len(edges))
	for _, e := range edges {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		deduped = append(deduped, e)
	}
	return deduped
}

// groupPackages partitions node ids by package. Packages are sorted by id;
// node ids keep emission order.
func groupPackages(nodes []graph.Node) []graph.Package {
	groups := make(map[string][]string)
	for _, n := range nodes {
		groups[n.Package] = append(groups[n.Package], n.ID)
	}
	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	packages := make([]graph.Package, 0, len(ids))
	for _, id := range ids {
		packages = append(packages, graph.Package{ID: id, NodeIDs: groups[id]})
	}
	return packages
}
