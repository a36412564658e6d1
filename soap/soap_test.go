package soap

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CognitoIQ/go-wsdl/internal/testutil"
	"github.com/CognitoIQ/go-wsdl/xmltree"
)

const ns = "http://example.com/people"

type person struct {
	Name    string
	Age     int64
	Email   *string
	Aliases []string
	Born    *time.Time
}

func (v *person) ToElements() []xmltree.Element {
	var result []xmltree.Element
	for _, x := range v.Aliases {
		result = append(result, TextNode("aliases", FormatString(x)))
	}
	result = append(result, TextNode("age", FormatInt(v.Age)))
	if v.Born != nil {
		result = append(result, TextNode("born", FormatDateTime(*v.Born)))
	}
	if v.Email != nil {
		result = append(result, TextNode("email", FormatString(*v.Email)))
	}
	result = append(result, TextNode("name", FormatString(v.Name)))
	return result
}

func (v *person) FromElement(el *xmltree.Element) error {
	var err error
	if v.Aliases, err = Fields(el, "aliases", ParseString); err != nil {
		return err
	}
	if v.Age, err = Field(el, "age", ParseInt); err != nil {
		return err
	}
	v.Born = Optional(Field(el, "born", ParseDateTime))
	v.Email = Optional(Field(el, "email", ParseString))
	if v.Name, err = Field(el, "name", ParseString); err != nil {
		return err
	}
	return nil
}

type household struct {
	Head    person
	Members []person
}

func (v *household) ToElements() []xmltree.Element {
	result := []xmltree.Element{Node("head", &v.Head)}
	for i := range v.Members {
		result = append(result, Node("members", &v.Members[i]))
	}
	return result
}

func (v *household) FromElement(el *xmltree.Element) error {
	var err error
	if v.Head, err = Complex[person](el, "head"); err != nil {
		return err
	}
	if v.Members, err = ComplexList[person](el, "members"); err != nil {
		return err
	}
	return nil
}

func roundTrip(t *testing.T, in Marshaler, out Unmarshaler) {
	t.Helper()
	el := Node("root", in)
	parsed, err := xmltree.Parse(xmltree.Marshal(&el))
	require.NoError(t, err)
	require.NoError(t, out.FromElement(parsed))
}

func TestRoundTrip(t *testing.T) {
	email := "ada@example.com"
	born := time.Date(1815, 12, 10, 8, 30, 0, 0, time.UTC)
	in := household{
		Head: person{Name: "Ada <Lovelace> & co", Age: 36, Email: &email, Born: &born},
		Members: []person{
			{Name: "Byron", Age: 8, Aliases: []string{"B", "Bee"}},
			{Name: "Anne", Age: 6},
		},
	}
	var out household
	roundTrip(t, &in, &out)
	assert.Equal(t, in, out)
}

func TestMissingRequired(t *testing.T) {
	el, err := xmltree.Parse([]byte(`<root><name>x</name></root>`))
	require.NoError(t, err)

	var p person
	err = p.FromElement(el)
	var ferr *FieldError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "age", ferr.Field)
	assert.ErrorIs(t, err, ErrMissingElement)
}

func TestBadValue(t *testing.T) {
	el, err := xmltree.Parse([]byte(`<root><name>x</name><age>old</age><email>e</email></root>`))
	require.NoError(t, err)

	var p person
	var ferr *FieldError
	require.ErrorAs(t, p.FromElement(el), &ferr)
	assert.Equal(t, "age", ferr.Field)
}

func TestOptionalAbsorbsErrors(t *testing.T) {
	el, err := xmltree.Parse([]byte(`<root><born>yesterday</born></root>`))
	require.NoError(t, err)
	assert.Nil(t, Optional(Field(el, "born", ParseDateTime)))
	assert.Nil(t, Optional(Field(el, "missing", ParseString)))
	assert.Nil(t, OptionalList(Fields(el, "born", ParseInt)))
}

func TestDirectChildrenOnly(t *testing.T) {
	el, err := xmltree.Parse([]byte(`<root><wrapper><name>deep</name><item>1</item><item>2</item></wrapper></root>`))
	require.NoError(t, err)

	_, err = Field(el, "name", ParseString)
	assert.ErrorIs(t, err, ErrMissingElement)
	assert.Nil(t, Optional(Field(el, "name", ParseString)))

	items, err := Fields(el, "item", ParseInt)
	require.NoError(t, err)
	assert.Nil(t, items)
}

func TestOptionalListAbsent(t *testing.T) {
	el, err := xmltree.Parse([]byte(`<root><tag>a</tag><tag>b</tag></root>`))
	require.NoError(t, err)

	tags := OptionalList(Fields(el, "tag", ParseString))
	require.NotNil(t, tags)
	assert.Equal(t, []string{"a", "b"}, *tags)
	assert.Nil(t, OptionalList(Fields(el, "label", ParseString)))
	assert.Nil(t, OptionalList(ComplexList[person](el, "member")))
}

func TestScalars(t *testing.T) {
	f, err := ParseFloat("INF")
	require.NoError(t, err)
	assert.True(t, math.IsInf(f, 1))
	assert.Equal(t, "INF", FormatFloat(f))
	assert.Equal(t, "-INF", FormatFloat(math.Inf(-1)))
	assert.Equal(t, "NaN", FormatFloat(math.NaN()))
	assert.Equal(t, "1.5", FormatFloat(1.5))

	b, err := ParseBool(" 1 ")
	require.NoError(t, err)
	assert.True(t, b)

	tm, err := ParseDateTime("2024-02-29T13:45:00")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, tm.Location())
	assert.Equal(t, "2024-02-29T13:45:00Z", FormatDateTime(tm))

	tm, err = ParseDateTime("2024-02-29T13:45:00.25+02:00")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29T11:45:00.25Z", FormatDateTime(tm.UTC()))

	_, err = ParseDateTime("not a date")
	assert.Error(t, err)
}

func TestAny(t *testing.T) {
	el, err := xmltree.Parse([]byte(`<root><extra><a>1</a><b>two</b></extra><note>hi</note></root>`))
	require.NoError(t, err)

	extra, err := Complex[Any](el, "extra")
	require.NoError(t, err)
	assert.Len(t, extra.ToElements(), 2)

	note, err := Complex[Any](el, "note")
	require.NoError(t, err)
	rebuilt := Node("note", &note)
	assert.Equal(t, "hi", rebuilt.Text())
}

type row struct {
	ID   int64
	Name string
}

func (r *row) XMLName() string { return "Row" }

func (r *row) ToElements() []xmltree.Element {
	return []xmltree.Element{
		TextNode("ID", FormatInt(r.ID)),
		TextNode("Name", FormatString(r.Name)),
	}
}

func (r *row) FromElement(el *xmltree.Element) error {
	var err error
	if r.ID, err = Field(el, "ID", ParseInt); err != nil {
		return err
	}
	r.Name, err = Field(el, "Name", ParseString)
	return err
}

func TestTemplate(t *testing.T) {
	const dataset = `<Result xmlns="http://example.com/inventory">
	  <xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" id="NewDataSet" />
	  <diffgr:diffgram xmlns:diffgr="urn:schemas-microsoft-com:xml-diffgram-v1">
	    <DocumentElement xmlns="">
	      <Row diffgr:id="Row1"><ID>1</ID><Name>bolt</Name></Row>
	      <Row diffgr:id="Row2"><ID>2</ID><Name>nut</Name></Row>
	    </DocumentElement>
	  </diffgr:diffgram>
	</Result>`
	el, err := xmltree.Parse([]byte(dataset))
	require.NoError(t, err)

	rows, err := FromTemplate[row](el)
	require.NoError(t, err)
	assert.Equal(t, []row{{1, "bolt"}, {2, "nut"}}, rows)

	node := xmltree.New("", "Result")
	node.Children = ToTemplate(rows)
	parsed, err := xmltree.Parse(xmltree.Marshal(&node))
	require.NoError(t, err)
	again, err := FromTemplate[row](parsed)
	require.NoError(t, err)
	assert.Equal(t, rows, again)
}

func TestTemplateNesting(t *testing.T) {
	el, err := xmltree.Parse([]byte(`<Result><DocumentElement><Row /></DocumentElement></Result>`))
	require.NoError(t, err)
	_, err = FromTemplate[row](el)
	var ferr *FieldError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "diffgram", ferr.Field)

	el, err = xmltree.Parse([]byte(`<Result><diffgram><Row /></diffgram></Result>`))
	require.NoError(t, err)
	_, err = FromTemplate[row](el)
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "DocumentElement", ferr.Field)

	el, err = xmltree.Parse([]byte(`<Result><diffgram><DocumentElement><Row /></DocumentElement></diffgram></Result>`))
	require.NoError(t, err)
	_, err = FromTemplate[string](el)
	var rerr *UnsupportedRowError
	assert.ErrorAs(t, err, &rerr)
}

func TestEnvelope(t *testing.T) {
	env := Envelope(ns, "GetPerson", &person{Name: "Ada", Age: 36})
	got := env.String()
	assert.True(t, strings.HasPrefix(got,
		`<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"><soap:Body><GetPerson xmlns="http://example.com/people">`), got)
	assert.Contains(t, got, `<age>36</age><name>Ada</name>`)
}

const personResponse = `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Header />
  <soap:Body>
    <GetPersonResponse xmlns="http://example.com/people">
      <name>Ada</name>
      <age>36</age>
    </GetPersonResponse>
  </soap:Body>
</soap:Envelope>`

func TestRequestResponse(t *testing.T) {
	srv := &testutil.FakeServer{
		URL:    "http://example.com/people/service",
		Body:   []byte(personResponse),
		Header: map[string][]string{"Set-Cookie": {"session=abc123; Path=/; HttpOnly"}},
	}
	var sess Session
	sess.SetCookie("session=old")

	var out person
	err := RequestResponse(context.Background(), srv.Client(), srv.URL, &sess, ns, "GetPerson",
		&person{Name: "x"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "Ada", out.Name)
	assert.Equal(t, int64(36), out.Age)
	assert.Equal(t, "session=abc123", sess.Cookie())

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "POST", reqs[0].Method)
	assert.Equal(t, "application/soap+xml", reqs[0].Header.Get("Content-Type"))
	assert.Equal(t, "Call", reqs[0].Header.Get("MessageType"))
	assert.Equal(t, "session=old", reqs[0].Header.Get("Cookie"))
	assert.Contains(t, string(reqs[0].Body), `<GetPerson xmlns="http://example.com/people">`)
}

func TestOneWay(t *testing.T) {
	srv := &testutil.FakeServer{URL: "http://example.com/svc", Body: []byte("ignored")}
	err := OneWay(context.Background(), srv.Client(), srv.URL, ns, "Ping", &person{Name: "x"})
	require.NoError(t, err)

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "text/xml", reqs[0].Header.Get("Content-Type"))
	assert.Equal(t, "Call", reqs[0].Header.Get("MessageType"))
	assert.Empty(t, reqs[0].Header.Get("Cookie"))
}

func TestFault(t *testing.T) {
	srv := &testutil.FakeServer{
		URL:    "http://example.com/svc",
		Status: 500,
		Body: []byte(`<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"><soap:Body>
		<soap:Fault><faultcode>soap:Server</faultcode><faultstring>no such person</faultstring></soap:Fault>
		</soap:Body></soap:Envelope>`),
	}
	var out person
	err := RequestResponse(context.Background(), srv.Client(), srv.URL, nil, ns, "GetPerson", &person{}, &out)
	var fault *Fault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, "soap:Server", fault.Code)
	assert.Equal(t, "no such person", fault.String)
}

func TestTransportErrors(t *testing.T) {
	ctx := context.Background()
	var out person

	srv := &testutil.FakeServer{URL: "http://example.com/svc", Status: 503, Body: []byte("busy")}
	err := RequestResponse(ctx, srv.Client(), srv.URL, nil, ns, "GetPerson", &person{}, &out)
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, 503, terr.StatusCode)

	boom := errors.New("connection refused")
	srv = &testutil.FakeServer{URL: "http://example.com/svc", Err: boom}
	err = OneWay(ctx, srv.Client(), srv.URL, ns, "Ping", &person{})
	require.ErrorAs(t, err, &terr)
	assert.ErrorIs(t, err, boom)

	srv = &testutil.FakeServer{URL: "http://example.com/svc", Body: []byte("<html>oops</html>")}
	err = RequestResponse(ctx, srv.Client(), srv.URL, nil, ns, "GetPerson", &person{}, &out)
	var eerr *EnvelopeError
	assert.ErrorAs(t, err, &eerr)
}

// nested marshals as n levels of <n> elements.
type nested int

func (n nested) ToElements() []xmltree.Element {
	if n == 0 {
		return nil
	}
	return []xmltree.Element{Node("n", n-1)}
}

func TestRequestTooDeep(t *testing.T) {
	srv := &testutil.FakeServer{URL: "http://example.com/svc", Body: []byte(personResponse)}
	var out person
	err := RequestResponse(context.Background(), srv.Client(), srv.URL, nil, ns, "GetPerson", nested(5000), &out)
	var rerr *RequestError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "GetPerson", rerr.Method)
	assert.Empty(t, srv.Requests())

	err = OneWay(context.Background(), srv.Client(), srv.URL, ns, "Ping", nested(5000))
	assert.ErrorAs(t, err, &rerr)
}

func TestDeserializeError(t *testing.T) {
	srv := &testutil.FakeServer{
		URL: "http://example.com/svc",
		Body: []byte(`<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"><soap:Body>
		<GetPersonResponse><name>Ada</name></GetPersonResponse></soap:Body></soap:Envelope>`),
	}
	var out person
	err := RequestResponse(context.Background(), srv.Client(), srv.URL, nil, ns, "GetPerson", &person{}, &out)
	var ferr *FieldError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "age", ferr.Field)
}

func TestSessionSerializesCalls(t *testing.T) {
	srv := &testutil.FakeServer{URL: "http://example.com/svc", Body: []byte(personResponse)}
	var sess Session
	errs := make(chan error, 8)
	for i := 0; i < cap(errs); i++ {
		go func() {
			var out person
			errs <- RequestResponse(context.Background(), srv.Client(), srv.URL, &sess, ns, "GetPerson", &person{}, &out)
		}()
	}
	for i := 0; i < cap(errs); i++ {
		assert.NoError(t, <-errs)
	}
	assert.Len(t, srv.Requests(), cap(errs))
}
