package xsd

import (
	"encoding/xml"
	"errors"
	"strings"
	"testing"

	"github.com/CognitoIQ/go-wsdl/xmltree"
)

const tns = "http://example.com/people"

func parseSchema(t *testing.T, body string, opts ...Option) (*Schema, error) {
	t.Helper()
	doc := `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"
		xmlns:tns="` + tns + `" targetNamespace="` + tns + `">` + body + `</xs:schema>`
	root, err := xmltree.Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	return Parse(root, "", opts...)
}

func mustParse(t *testing.T, body string) *Schema {
	t.Helper()
	s, err := parseSchema(t, body)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func name(local string) xml.Name { return xml.Name{Space: tns, Local: local} }

func complexType(t *testing.T, s *Schema, local string) *ComplexType {
	t.Helper()
	c, ok := s.Types[name(local)].(*ComplexType)
	if !ok {
		t.Fatalf("%s is %T, want *ComplexType", local, s.Types[name(local)])
	}
	return c
}

func TestParseComplexType(t *testing.T) {
	s := mustParse(t, `
	<xs:element name="Person">
	  <xs:annotation><xs:documentation>A person.</xs:documentation></xs:annotation>
	  <xs:complexType>
	    <xs:sequence>
	      <xs:element name="name" type="xs:string" />
	      <xs:element name="age" type="xs:int" minOccurs="1" maxOccurs="1" />
	      <xs:element name="email" type="xs:string" minOccurs="0" maxOccurs="1" />
	      <xs:element name="friend" type="tns:Person" minOccurs="0" maxOccurs="unbounded" />
	    </xs:sequence>
	  </xs:complexType>
	</xs:element>`)

	c := complexType(t, s, "Person")
	if got := strings.Join(c.Names(), ","); got != "age,email,friend,name" {
		t.Errorf("fields are %s", got)
	}
	if c.Fields["name"].Type != String {
		t.Errorf("name has type %v, want string", c.Fields["name"].Type)
	}
	if c.Fields["age"].Attr != (TypeAttribute{}) {
		t.Errorf("age attributes %+v were not normalized", c.Fields["age"].Attr)
	}
	if a := c.Fields["email"].Attr; !a.Nillable || a.Repeated() {
		t.Errorf("email should be optional, got %+v", a)
	}
	friend := c.Fields["friend"]
	if !friend.Attr.Repeated() {
		t.Errorf("friend should be repeated, got %+v", friend.Attr)
	}
	if friend.Type != Ref(name("Person")) {
		t.Errorf("friend has type %v", friend.Type)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, out TypeAttribute
	}{
		{TypeAttribute{MinOccurs: Occurs(1), MaxOccurs: Occurs(1)}, TypeAttribute{}},
		{TypeAttribute{MinOccurs: Occurs(0), MaxOccurs: Occurs(1)}, TypeAttribute{Nillable: true}},
		{
			TypeAttribute{Nillable: true, MinOccurs: Occurs(1), MaxOccurs: Occurs(Unbounded)},
			TypeAttribute{MinOccurs: Occurs(0), MaxOccurs: Occurs(Unbounded)},
		},
		{
			TypeAttribute{Nillable: true, MinOccurs: Occurs(0), MaxOccurs: Occurs(Unbounded)},
			TypeAttribute{MinOccurs: Occurs(0), MaxOccurs: Occurs(Unbounded)},
		},
		{TypeAttribute{Nillable: true}, TypeAttribute{Nillable: true}},
	}
	eq := func(a, b TypeAttribute) bool {
		p := func(o *Occurrence) string {
			if o == nil {
				return "nil"
			}
			return o.String()
		}
		return a.Nillable == b.Nillable && p(a.MinOccurs) == p(b.MinOccurs) && p(a.MaxOccurs) == p(b.MaxOccurs)
	}
	for _, tt := range tests {
		got := tt.in.Normalize()
		if !eq(got, tt.out) {
			t.Errorf("Normalize(%+v) = %+v, want %+v", tt.in, got, tt.out)
		}
		if again := got.Normalize(); !eq(again, got) {
			t.Errorf("Normalize is not idempotent for %+v: %+v", got, again)
		}
	}
}

func TestOneBoundDefaults(t *testing.T) {
	s := mustParse(t, `
	<xs:complexType name="List">
	  <xs:sequence>
	    <xs:element name="item" type="xs:string" maxOccurs="unbounded" />
	    <xs:element name="note" type="xs:string" minOccurs="0" />
	  </xs:sequence>
	</xs:complexType>`)
	c := complexType(t, s, "List")
	if !c.Fields["item"].Attr.Repeated() {
		t.Errorf("item should be repeated, got %+v", c.Fields["item"].Attr)
	}
	if a := c.Fields["note"].Attr; !a.Nillable || a.Repeated() {
		t.Errorf("note should be optional, got %+v", a)
	}
}

func TestTopLevelAlias(t *testing.T) {
	s := mustParse(t, `
	<xs:element name="Customer" type="tns:Person" />
	<xs:element name="Count" type="xs:long" />`)
	for local, want := range map[string]SimpleType{
		"Customer": Ref(name("Person")),
		"Count":    Long,
	} {
		st, ok := s.Types[name(local)].(*Simple)
		if !ok {
			t.Errorf("%s is %T, want *Simple", local, s.Types[name(local)])
			continue
		}
		if st.Base != want {
			t.Errorf("%s has base %v, want %v", local, st.Base, want)
		}
	}
}

func TestSimpleRestriction(t *testing.T) {
	s := mustParse(t, `
	<xs:simpleType name="Code">
	  <xs:restriction base="xs:string">
	    <xs:maxLength value="4" />
	  </xs:restriction>
	</xs:simpleType>`)
	st, ok := s.Types[name("Code")].(*Simple)
	if !ok || st.Base != String {
		t.Errorf("Code parsed as %#v", s.Types[name("Code")])
	}
}

func TestUnsupportedSimpleType(t *testing.T) {
	for _, kind := range []string{"list", "union"} {
		_, err := parseSchema(t, `
		<xs:simpleType name="Codes">
		  <xs:`+kind+` itemType="xs:string" />
		</xs:simpleType>`)
		if !errors.Is(err, &SchemaError{Kind: Unsupported, Name: kind}) {
			t.Errorf("%s: got error %v, want unsupported", kind, err)
		}
		if err != nil && !strings.Contains(err.Error(), "simpleType(Codes)") {
			t.Errorf("%s: error %q does not say where", kind, err)
		}
	}
}

func TestInvalidOccurs(t *testing.T) {
	_, err := parseSchema(t, `
	<xs:complexType name="Bad">
	  <xs:sequence>
	    <xs:element name="x" type="xs:int" maxOccurs="lots" />
	  </xs:sequence>
	</xs:complexType>`)
	if !errors.Is(err, &SchemaError{Kind: InvalidValue, Name: "maxOccurs"}) {
		t.Errorf("got %v, want invalid maxOccurs", err)
	}
}

func TestMissingName(t *testing.T) {
	_, err := parseSchema(t, `<xs:complexType><xs:sequence /></xs:complexType>`)
	if !errors.Is(err, &SchemaError{Kind: AttributeNotFound, Name: "name"}) {
		t.Errorf("got %v, want missing name", err)
	}
}

func TestDataSet(t *testing.T) {
	s := mustParse(t, `
	<xs:element name="GetRowsResult">
	  <xs:complexType>
	    <xs:sequence>
	      <xs:element ref="xs:schema" />
	      <xs:any />
	    </xs:sequence>
	  </xs:complexType>
	</xs:element>`)
	if _, ok := s.Types[name("GetRowsResult")].(Template); !ok {
		t.Errorf("GetRowsResult is %T, want Template", s.Types[name("GetRowsResult")])
	}
}

func TestHoistAnonymousType(t *testing.T) {
	s := mustParse(t, `
	<xs:element name="Order">
	  <xs:complexType>
	    <xs:sequence>
	      <xs:element name="Address">
	        <xs:complexType>
	          <xs:sequence>
	            <xs:element name="street" type="xs:string" />
	          </xs:sequence>
	        </xs:complexType>
	      </xs:element>
	      <xs:element name="Order">
	        <xs:complexType>
	          <xs:sequence>
	            <xs:element name="id" type="xs:int" />
	          </xs:sequence>
	        </xs:complexType>
	      </xs:element>
	    </xs:sequence>
	  </xs:complexType>
	</xs:element>`)
	order := complexType(t, s, "Order")
	if order.Fields["Address"].Type != Ref(name("Address")) {
		t.Errorf("Address field has type %v", order.Fields["Address"].Type)
	}
	complexType(t, s, "Address")
	if order.Fields["Order"].Type != Ref(name("Order_Order")) {
		t.Errorf("nested Order field has type %v", order.Fields["Order"].Type)
	}
	complexType(t, s, "Order_Order")
}

func TestHoistedTypeRedeclared(t *testing.T) {
	s := mustParse(t, `
	<xs:complexType name="Order">
	  <xs:sequence>
	    <xs:element name="Item">
	      <xs:complexType>
	        <xs:sequence>
	          <xs:element name="sku" type="xs:string" />
	        </xs:sequence>
	      </xs:complexType>
	    </xs:element>
	  </xs:sequence>
	</xs:complexType>
	<xs:complexType name="Item">
	  <xs:sequence>
	    <xs:element name="price" type="xs:float" />
	  </xs:sequence>
	</xs:complexType>`)

	item := complexType(t, s, "Item")
	if _, ok := item.Fields["price"]; !ok {
		t.Errorf("declared Item has fields %v", item.Names())
	}
	ref, ok := complexType(t, s, "Order").Fields["Item"].Type.(Ref)
	if !ok || ref != Ref(name("Order_Item")) {
		t.Fatalf("Order.Item refers to %v", complexType(t, s, "Order").Fields["Item"].Type)
	}
	inline := complexType(t, s, "Order_Item")
	if _, ok := inline.Fields["sku"]; !ok {
		t.Errorf("anonymous Item has fields %v", inline.Names())
	}
	if inline.Name != name("Order_Item") {
		t.Errorf("anonymous type is called %v", inline.Name)
	}
}

func TestElementRef(t *testing.T) {
	s := mustParse(t, `
	<xs:element name="Tag" type="xs:string" />
	<xs:complexType name="Post">
	  <xs:sequence>
	    <xs:element ref="tns:Tag" minOccurs="0" maxOccurs="unbounded" />
	  </xs:sequence>
	</xs:complexType>`)
	f, ok := complexType(t, s, "Post").Fields["Tag"]
	if !ok {
		t.Fatal("ref field not named after its target")
	}
	if f.Type != Ref(name("Tag")) || !f.Attr.Repeated() {
		t.Errorf("got field %+v", f)
	}
}

type testLogger struct{ lines []string }

func (l *testLogger) Printf(format string, v ...interface{}) {
	l.lines = append(l.lines, format)
}

func TestDuplicateTypes(t *testing.T) {
	const body = `
	<xs:simpleType name="Code"><xs:restriction base="xs:string" /></xs:simpleType>
	<xs:simpleType name="Code"><xs:restriction base="xs:int" /></xs:simpleType>`

	var log testLogger
	s, err := parseSchema(t, body, LogOutput(&log))
	if err != nil {
		t.Fatal(err)
	}
	if s.Types[name("Code")].(*Simple).Base != Int {
		t.Error("later declaration did not win")
	}
	if len(log.lines) == 0 {
		t.Error("no warning was logged")
	}

	_, err = parseSchema(t, body, RejectDuplicateTypes(true))
	var dup *DuplicateTypeError
	if !errors.As(err, &dup) || dup.Name != name("Code") {
		t.Errorf("got %v, want duplicate Code", err)
	}
}

func TestMultipleSchemas(t *testing.T) {
	doc := `<types xmlns:xs="http://www.w3.org/2001/XMLSchema">
	  <xs:schema targetNamespace="urn:a"><xs:element name="A" type="xs:string" /></xs:schema>
	  <xs:schema><xs:element name="B" type="xs:int" /></xs:schema>
	  <xs:schema targetNamespace="urn:c"><xs:import namespace="urn:a" /></xs:schema>
	</types>`
	root, err := xmltree.Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	s, err := Parse(root, "urn:default")
	if err != nil {
		t.Fatal(err)
	}
	names := Names(s.Types)
	want := []xml.Name{{Space: "urn:a", Local: "A"}, {Space: "urn:default", Local: "B"}}
	if len(names) != len(want) || names[0] != want[0] || names[1] != want[1] {
		t.Errorf("got types %v, want %v", names, want)
	}
	if len(s.Imports) != 1 || s.Imports[0] != "urn:a" {
		t.Errorf("got imports %v", s.Imports)
	}
	if got, ok := s.LookupLocal("B", "urn:x"); !ok || got.Space != "urn:default" {
		t.Errorf("LookupLocal(B) = %v, %v", got, ok)
	}
}
