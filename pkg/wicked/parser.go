// Copyright 2026 The wicked2nm Authors
// SPDX-License-Identifier: Apache-2.0

package wicked

import (
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jcronenberg/wicked2nm/pkg/errors"
)

// ignoredFields are descriptor paths that are intentionally not migrated.
// They are logged at debug level instead of producing a warning.
// The list must be in alphabetical order.
var ignoredFields = []string{
	"ipv4.arp-notify",
	"ipv4.forwarding",
	"ipv6.accept-dad",
	"ipv6.accept-ra",
	"ipv6.addr-gen-mode",
	"ipv6.autoconf",
	"ipv6.forwarding",
	"ipv6.stable-secret",
}

// ParseResult is the outcome of parsing one descriptor document.
type ParseResult struct {
	Interfaces []Interface

	// Warnings are unhandled descriptor paths, one entry per interface
	// field that the migration would silently lose otherwise.
	Warnings []string

	// Ignored are allow-listed paths that were present but intentionally
	// skipped; callers log them at debug level.
	Ignored []string
}

// Wicked namespaces elements as <ipv4:static>; rewrite them to the dashed
// form so the decoder sees plain element names.
var colonRe = regexp.MustCompile(`<(/?)(\w+):(\w+)\b`)

func replaceColons(contents string) string {
	return colonRe.ReplaceAllString(contents, "<$1$2-$3")
}

// element is one node of the generic document tree. The typed model marks
// every node it consults; leaves that remain unconsulted afterwards are
// reported as unhandled fields.
type element struct {
	name     string
	text     string
	children []*element
	used     bool
}

func (e *element) child(name string) *element {
	for _, c := range e.children {
		if c.name == name {
			c.used = true
			return c
		}
	}
	return nil
}

func (e *element) childText(name string) string {
	if c := e.child(name); c != nil {
		return strings.TrimSpace(c.text)
	}
	return ""
}

func (e *element) childAll(name string) []*element {
	var out []*element
	for _, c := range e.children {
		if c.name == name {
			c.used = true
			out = append(out, c)
		}
	}
	return out
}

func (e *element) has(name string) bool {
	return e.child(name) != nil
}

// unhandledPaths collects the dot-joined paths of every leaf that was never
// consulted by the typed model.
func (e *element) unhandledPaths(prefix string, out *[]string) {
	for _, c := range e.children {
		path := c.name
		if prefix != "" {
			path = prefix + "." + c.name
		}
		if len(c.children) == 0 {
			if !c.used {
				*out = append(*out, path)
			}
			continue
		}
		c.unhandledPaths(path, out)
	}
}

// ParseDocument parses one wicked XML document, which may contain any number
// of top level <interface> elements. Malformed XML is a fatal parse error;
// unknown-but-present fields are surfaced as warnings, never dropped
// silently.
func ParseDocument(contents string) (*ParseResult, error) {
	roots, err := parseElements(strings.NewReader(replaceColons(contents)))
	if err != nil {
		return nil, err
	}

	result := &ParseResult{}
	for _, root := range roots {
		if root.name != "interface" {
			return nil, errors.New(errors.ParseXMLInvalid,
				fmt.Sprintf("unexpected top level element <%s>", root.name))
		}

		iface, warnings := interfaceFromElement(root)

		var unhandled []string
		root.unhandledPaths("", &unhandled)
		for _, path := range unhandled {
			idx := sort.SearchStrings(ignoredFields, path)
			if idx < len(ignoredFields) && ignoredFields[idx] == path {
				result.Ignored = append(result.Ignored,
					fmt.Sprintf("Ignored field in interface %s: %s", iface.Name, path))
				continue
			}
			warnings = append(warnings,
				fmt.Sprintf("Unhandled field in interface %s: %s", iface.Name, path))
		}

		result.Interfaces = append(result.Interfaces, iface)
		result.Warnings = append(result.Warnings, warnings...)
	}

	return result, nil
}

// parseElements tokenizes the document into generic element trees. Multiple
// top level elements are allowed; `wicked show-config` concatenates one
// <interface> document per interface.
func parseElements(r io.Reader) ([]*element, error) {
	dec := xml.NewDecoder(r)

	var roots []*element
	var stack []*element

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ParseXMLInvalid)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			e := &element{name: t.Name.Local}
			if len(stack) == 0 {
				roots = append(roots, e)
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, e)
			}
			stack = append(stack, e)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, errors.New(errors.ParseXMLInvalid,
					fmt.Sprintf("unexpected closing element </%s>", t.Name.Local))
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text += string(t)
			}
		}
	}

	if len(stack) != 0 {
		return nil, errors.New(errors.ParseXMLInvalid,
			fmt.Sprintf("unterminated element <%s>", stack[len(stack)-1].name))
	}

	return roots, nil
}

func interfaceFromElement(root *element) (Interface, []string) {
	var warnings []string
	iface := Interface{
		Name: root.childText("name"),
	}

	if link := root.child("link"); link != nil {
		iface.Link.Master = link.childText("master")
		iface.Link.MTU = parseUint32(link, "mtu", iface.Name, &warnings)
	}
	if control := root.child("control"); control != nil {
		iface.Control.Mode = control.childText("mode")
	}
	if fw := root.child("firewall"); fw != nil {
		iface.Firewall.Zone = fw.childText("zone")
	}

	iface.IPv4 = ipProtocolFromElement(root.child("ipv4"))
	iface.IPv6 = ipProtocolFromElement(root.child("ipv6"))
	iface.IPv4Static = ipStaticFromElement(root.child("ipv4-static"))
	iface.IPv6Static = ipStaticFromElement(root.child("ipv6-static"))
	iface.IPv4DHCP = ipDhcpFromElement(root.child("ipv4-dhcp"))
	iface.IPv6DHCP = ipDhcpFromElement(root.child("ipv6-dhcp"))
	if auto := root.child("ipv6-auto"); auto != nil {
		iface.IPv6Auto = parseBool(auto.childText("enabled"), true)
	}

	if bond := root.child("bond"); bond != nil {
		iface.Bond = bondFromElement(bond, iface.Name, &warnings)
	}
	if bridge := root.child("bridge"); bridge != nil {
		iface.Bridge = bridgeFromElement(bridge, iface.Name, &warnings)
	}
	if vlan := root.child("vlan"); vlan != nil {
		iface.Vlan = vlanFromElement(vlan, iface.Name, &warnings)
	}
	iface.Dummy = root.has("dummy")

	return iface, warnings
}

func ipProtocolFromElement(e *element) IPProtocol {
	if e == nil {
		return IPProtocol{}
	}
	return IPProtocol{
		Present: true,
		Enabled: parseBool(e.childText("enabled"), true),
	}
}

func ipStaticFromElement(e *element) *IPStatic {
	if e == nil {
		return nil
	}
	static := &IPStatic{}
	for _, addr := range e.childAll("address") {
		if local := addr.childText("local"); local != "" {
			static.Addresses = append(static.Addresses, local)
		}
	}
	if route := e.child("route"); route != nil {
		if hop := route.child("nexthop"); hop != nil {
			static.Gateway = hop.childText("gateway")
		}
	}
	return static
}

func ipDhcpFromElement(e *element) *IPDhcp {
	if e == nil {
		return nil
	}
	return &IPDhcp{
		Enabled:  parseBool(e.childText("enabled"), true),
		Hostname: e.childText("hostname"),
		Flags:    e.childText("flags"),
		Update:   e.childText("update"),
	}
}

func bondFromElement(e *element, ifname string, warnings *[]string) *Bond {
	bond := &Bond{
		Mode:            e.childText("mode"),
		XmitHashPolicy:  e.childText("xmit-hash-policy"),
		FailOverMac:     e.childText("fail-over-mac"),
		LacpRate:        e.childText("lacp-rate"),
		AdSelect:        e.childText("ad-select"),
		AdActorSystem:   e.childText("ad-actor-system"),
		PrimaryReselect: e.childText("primary-reselect"),
		Primary:         e.childText("primary"),
		Address:         e.childText("address"),

		AdActorSysPrio:  parseUint16Opt(e, "ad-actor-sys-prio", ifname, warnings),
		AdUserPortKey:   parseUint16Opt(e, "ad-user-port-key", ifname, warnings),
		MinLinks:        parseUint32Opt(e, "min-links", ifname, warnings),
		PacketsPerSlave: parseUint32Opt(e, "packets-per-slave", ifname, warnings),
		TlbDynamicLb:    parseBoolOpt(e, "tlb-dynamic-lb"),
		AllSlavesActive: parseBoolOpt(e, "all-slaves-active"),
		NumGratArp:      parseUint32Opt(e, "num-grat-arp", ifname, warnings),
		NumUnsolNa:      parseUint32Opt(e, "num-unsol-na", ifname, warnings),
		LpInterval:      parseUint32Opt(e, "lp-interval", ifname, warnings),
		ResendIgmp:      parseUint32Opt(e, "resend-igmp", ifname, warnings),
	}

	if miimon := e.child("miimon"); miimon != nil {
		bond.Miimon = &Miimon{
			Frequency:     parseUint32(miimon, "frequency", ifname, warnings),
			UpDelay:       parseUint32Opt(miimon, "updelay", ifname, warnings),
			DownDelay:     parseUint32Opt(miimon, "downdelay", ifname, warnings),
			CarrierDetect: miimon.childText("carrier-detect"),
		}
	}
	if arpmon := e.child("arpmon"); arpmon != nil {
		mon := &ArpMon{
			Interval:        parseUint32(arpmon, "interval", ifname, warnings),
			Validate:        arpmon.childText("validate"),
			ValidateTargets: arpmon.childText("validate-targets"),
		}
		if targets := arpmon.child("targets"); targets != nil {
			for _, t := range targets.childAll("ipv4-address") {
				t.used = true
				mon.Targets = append(mon.Targets, strings.TrimSpace(t.text))
			}
		}
		bond.ArpMon = mon
	}
	if slaves := e.child("slaves"); slaves != nil {
		for _, slave := range slaves.childAll("slave") {
			if device := slave.childText("device"); device != "" {
				bond.Slaves = append(bond.Slaves, device)
			}
		}
	}

	return bond
}

func bridgeFromElement(e *element, ifname string, warnings *[]string) *Bridge {
	bridge := &Bridge{
		// Wicked defaults stp to false, NetworkManager to true; the
		// wicked default wins for migrated profiles.
		Stp:          parseBool(e.childText("stp"), false),
		Priority:     parseUint32Opt(e, "priority", ifname, warnings),
		ForwardDelay: e.childText("forward-delay"),
		AgeingTime:   e.childText("ageing-time"),
		HelloTime:    e.childText("hello-time"),
		MaxAge:       e.childText("max-age"),
	}

	if ports := e.child("ports"); ports != nil {
		for _, port := range ports.childAll("port") {
			bridge.Ports = append(bridge.Ports, BridgePort{
				Device:   port.childText("device"),
				Priority: parseUint32Opt(port, "priority", ifname, warnings),
				PathCost: parseUint32Opt(port, "path-cost", ifname, warnings),
			})
		}
	}

	return bridge
}

func vlanFromElement(e *element, ifname string, warnings *[]string) *Vlan {
	vlan := &Vlan{
		Device:   e.childText("device"),
		Protocol: e.childText("protocol"),
	}
	if tag := e.childText("tag"); tag != "" {
		v, err := strconv.ParseUint(tag, 10, 16)
		if err != nil {
			*warnings = append(*warnings,
				fmt.Sprintf("Invalid value in interface %s: vlan.tag: %q", ifname, tag))
		} else {
			vlan.Tag = uint16(v)
		}
	}
	return vlan
}

func parseBool(s string, def bool) bool {
	switch strings.TrimSpace(s) {
	case "true", "yes", "on", "1":
		return true
	case "false", "no", "off", "0":
		return false
	default:
		return def
	}
}

func parseBoolOpt(e *element, name string) *bool {
	c := e.child(name)
	if c == nil {
		return nil
	}
	v := parseBool(c.text, false)
	return &v
}

func parseUint32(e *element, name, ifname string, warnings *[]string) uint32 {
	v := parseUint32Opt(e, name, ifname, warnings)
	if v == nil {
		return 0
	}
	return *v
}

func parseUint32Opt(e *element, name, ifname string, warnings *[]string) *uint32 {
	c := e.child(name)
	if c == nil {
		return nil
	}
	text := strings.TrimSpace(c.text)
	v, err := strconv.ParseUint(text, 10, 32)
	if err != nil {
		*warnings = append(*warnings,
			fmt.Sprintf("Invalid value in interface %s: %s.%s: %q", ifname, e.name, name, text))
		return nil
	}
	out := uint32(v)
	return &out
}

func parseUint16Opt(e *element, name, ifname string, warnings *[]string) *uint16 {
	c := e.child(name)
	if c == nil {
		return nil
	}
	text := strings.TrimSpace(c.text)
	v, err := strconv.ParseUint(text, 10, 16)
	if err != nil {
		*warnings = append(*warnings,
			fmt.Sprintf("Invalid value in interface %s: %s.%s: %q", ifname, e.name, name, text))
		return nil
	}
	out := uint16(v)
	return &out
}
