package content

import "sort"

// MemoryStore is the built-in catalog. Lookups are by map key; list
// methods return copies in stable order so handlers can range freely.
type MemoryStore struct {
	posts     map[string]BlogPost
	protocols map[string]ProtocolPage
	tools     map[string]Tool

	postOrder     []string
	protocolOrder []string
	toolOrder     []string
}

// NewMemoryStore builds the catalog from the seeded data below.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		posts:     make(map[string]BlogPost),
		protocols: make(map[string]ProtocolPage),
		tools:     make(map[string]Tool),
	}
	for _, p := range seedPosts {
		s.posts[p.Slug] = p
		s.postOrder = append(s.postOrder, p.Slug)
	}
	for _, p := range seedProtocols {
		s.protocols[p.ID] = p
		s.protocolOrder = append(s.protocolOrder, p.ID)
	}
	for _, t := range seedTools {
		s.tools[t.Slug] = t
		s.toolOrder = append(s.toolOrder, t.Slug)
	}
	return s
}

func (s *MemoryStore) BlogPosts() []BlogPost {
	out := make([]BlogPost, 0, len(s.postOrder))
	for _, slug := range s.postOrder {
		out = append(out, s.posts[slug])
	}
	return out
}

func (s *MemoryStore) BlogPost(slug string) (BlogPost, error) {
	p, ok := s.posts[slug]
	if !ok {
		return BlogPost{}, ErrNotFound
	}
	return p, nil
}

func (s *MemoryStore) Protocols() []ProtocolPage {
	out := make([]ProtocolPage, 0, len(s.protocolOrder))
	for _, id := range s.protocolOrder {
		out = append(out, s.protocols[id])
	}
	return out
}

func (s *MemoryStore) Protocol(id string) (ProtocolPage, error) {
	p, ok := s.protocols[id]
	if !ok {
		return ProtocolPage{}, ErrNotFound
	}
	return p, nil
}

func (s *MemoryStore) Tools() []Tool {
	out := make([]Tool, 0, len(s.toolOrder))
	for _, slug := range s.toolOrder {
		out = append(out, s.tools[slug])
	}
	return out
}

func (s *MemoryStore) Tool(slug string) (Tool, error) {
	t, ok := s.tools[slug]
	if !ok {
		return Tool{}, ErrNotFound
	}
	return t, nil
}

// Slugs returns every catalog key, sorted. Used by the check command to
// cross-reference protocol pages against the access policy.
func (s *MemoryStore) Slugs() []string {
	out := append([]string{}, s.protocolOrder...)
	sort.Strings(out)
	return out
}

var seedPosts = []BlogPost{
	{
		Slug:     "industrial-protocols-overview",
		Title:    "Industrial Protocols Overview",
		Excerpt:  "Understand how protocol philosophy shapes data models, communications, and security choices before you capture the first packet.",
		Author:   "IACS DevOps Team",
		Date:     "January 14, 2026",
		Category: "Foundations",
		ReadTime: "18 min read",
		Tags:     []string{"Protocols", "Architecture", "OT/IT", "Security"},
		Content: "<h2>Understanding Protocol Philosophy Before You Touch the Wire</h2>" +
			"<p>Every industrial protocol answers the same four questions: how data is represented, " +
			"how communication occurs, what it assumes about time and reliability, and where security lives. " +
			"Memory-oriented protocols like Modbus and S7comm treat data as locations. Telecontrol protocols " +
			"like DNP3 and IEC-104 model points with state, quality and time. Object-oriented protocols like " +
			"CIP, OPC UA and BACnet model devices explicitly. MQTT moves messages and leaves semantics to topic " +
			"conventions. Most integration failures come from forcing incompatible answers together.</p>",
	},
	{
		Slug:     "modbus-tcp-overview",
		Title:    "Modbus TCP: The Lingua Franca of Industrial Automation",
		Excerpt:  "Registers, coils and function codes: how a 1979 protocol still runs most plant floors.",
		Author:   "IACS DevOps Team",
		Date:     "February 3, 2026",
		Category: "Protocols",
		ReadTime: "12 min read",
		Tags:     []string{"Modbus", "PLC", "SCADA"},
		Content: "<h2>Why Modbus Endures</h2>" +
			"<p>Modbus TCP wraps the original serial protocol in a 7-byte MBAP header over port 502. " +
			"A master polls slave devices for coils, discrete inputs, input registers and holding registers " +
			"using a small set of function codes. There is no discovery, no semantics and no built-in " +
			"security, which is exactly why it is the first protocol to learn on the lab bench.</p>",
	},
	{
		Slug:     "wireshark-for-industrial-protocols",
		Title:    "Wireshark for Industrial Protocols",
		Excerpt:  "Capture filters, dissectors and workflows for OT traffic analysis.",
		Author:   "IACS DevOps Team",
		Date:     "February 17, 2026",
		Category: "Wireshark",
		ReadTime: "15 min read",
		Tags:     []string{"Wireshark", "Packet Analysis", "OT"},
		Content: "<h2>Dissecting the Plant Floor</h2>" +
			"<p>Wireshark ships dissectors for every protocol the lab runs. Start with a capture filter " +
			"on the protocol's well-known port, then use display filters such as <code>modbus.func_code</code> " +
			"or <code>s7comm.param.func</code> to follow request and response pairs through a session.</p>",
	},
	{
		Slug:     "termshark-industrial-protocol-analysis",
		Title:    "Termshark for Industrial Protocol Analysis",
		Excerpt:  "Terminal-native packet analysis inside the diagnostics container.",
		Author:   "IACS DevOps Team",
		Date:     "March 2, 2026",
		Category: "Packet Analysis",
		ReadTime: "10 min read",
		Tags:     []string{"Termshark", "Packet Analysis", "CLI"},
		Content: "<h2>Packet Analysis Without a Desktop</h2>" +
			"<p>The diagnostics container ships termshark so captures can be inspected where the traffic " +
			"happens. Launch it with the protocol's port filter, walk the packet list with the keyboard and " +
			"expand the dissection tree exactly as you would in Wireshark.</p>",
	},
	{
		Slug:     "ot-it-convergence-basics",
		Title:    "OT/IT Convergence Basics",
		Excerpt:  "What happens when plant networks meet enterprise networks, and why segmentation still matters.",
		Author:   "IACS DevOps Team",
		Date:     "March 20, 2026",
		Category: "OT/IT",
		ReadTime: "14 min read",
		Tags:     []string{"OT/IT", "Networking", "Security"},
		Content: "<h2>Two Worlds, One Wire</h2>" +
			"<p>Operational networks prioritize availability and determinism; enterprise networks prioritize " +
			"confidentiality and patch velocity. Convergence means carrying both sets of expectations on shared " +
			"infrastructure, which is why zones, conduits and protocol-aware firewalls are the starting point " +
			"of every modern reference architecture.</p>",
	},
}

var seedProtocols = []ProtocolPage{
	{
		ID:               "modbus",
		Name:             "Modbus TCP",
		ShortDescription: "The industry standard for serial and TCP/IP communication with PLCs, sensors, and I/O devices.",
		Overview: "Modbus has connected industrial devices for over 45 years. A master polls slave devices " +
			"for register and coil data over a simple request-response exchange. Modbus TCP wraps the serial " +
			"protocol in TCP/IP on standard Ethernet. No discovery, no built-in security, up to 247 devices per segment.",
		TransportLayer: TransportLayer{
			Type:        "TCP/IP",
			Port:        502,
			Description: "Port 502; 7-byte MBAP header (Transaction ID, Protocol ID, Length, Unit ID) followed by the PDU.",
		},
		HMI: HMIConfig{Enabled: true, HMIPath: "/modbus", ServerPort: 502},
		TestWorkflow: []string{
			"Open the SCADA interface for Modbus",
			"Toggle digital outputs (coils) using FC05/FC15",
			"Write analog outputs (holding registers) using FC06/FC16",
			"Read analog inputs (input registers) using FC04",
			"Run termshark with filter: port 502",
			"Analyze Modbus function codes and register values in packets",
		},
		RelatedBlogs: []string{"modbus-tcp-overview", "wireshark-for-industrial-protocols", "termshark-industrial-protocol-analysis"},
		LibraryDocs: []LibraryDoc{
			{Name: "pymodbus", URL: "https://pymodbus.readthedocs.io/", Language: "Python"},
			{Name: "libmodbus", URL: "https://libmodbus.org/documentation/", Language: "C"},
			{Name: "modbus-serial", URL: "https://github.com/yaacov/node-modbus-serial", Language: "Node.js"},
		},
		Icon:        "network",
		GuestAccess: true,
	},
	{
		ID:               "opcua",
		Name:             "OPC UA",
		ShortDescription: "Platform-independent, service-oriented architecture for secure industrial interoperability.",
		Overview: "OPC UA replaces COM/DCOM-based OPC Classic with a secure, platform-independent framework. " +
			"It exposes a typed information model with nodes, methods and events, supports publish-subscribe " +
			"and ships security (authentication, encryption, signing) in the protocol itself.",
		TransportLayer: TransportLayer{
			Type:        "TCP/IP (Binary) or HTTPS",
			Port:        4840,
			Description: "OPC UA Binary on port 4840 with X.509 secure channels; HTTPS transport available for web integration.",
		},
		HMI: HMIConfig{Enabled: true, HMIPath: "/opcua", ServerPort: 4840},
		TestWorkflow: []string{
			"Browse the server address space from the SCADA client",
			"Read and write typed node values",
			"Create a subscription and watch data change notifications",
			"Run termshark with filter: port 4840",
		},
		RelatedBlogs: []string{"industrial-protocols-overview", "wireshark-for-industrial-protocols"},
		LibraryDocs: []LibraryDoc{
			{Name: "opcua-asyncio", URL: "https://github.com/FreeOpcUa/opcua-asyncio", Language: "Python"},
			{Name: "open62541", URL: "https://open62541.org/doc/current/", Language: "C"},
			{Name: "node-opcua", URL: "https://node-opcua.github.io/", Language: "Node.js"},
		},
		Icon: "layers",
	},
	{
		ID:               "cip",
		Name:             "CIP/EtherNet-IP",
		ShortDescription: "Object-oriented protocol family behind Allen-Bradley and Rockwell automation networks.",
		Overview: "The Common Industrial Protocol models devices as objects with attributes and services. " +
			"EtherNet/IP carries CIP over standard Ethernet, with explicit messaging for configuration and " +
			"implicit cyclic I/O for real-time data.",
		TransportLayer: TransportLayer{
			Type:        "TCP/UDP",
			Port:        44818,
			Description: "Explicit messaging on TCP 44818; implicit I/O on UDP 2222. Session-based with forward-open connections.",
		},
		HMI: HMIConfig{Enabled: true, HMIPath: "/cip", ServerPort: 44818},
		TestWorkflow: []string{
			"Open an explicit messaging session to the simulated controller",
			"Read tag values through the SCADA interface",
			"Run termshark with filter: port 44818",
		},
		RelatedBlogs: []string{"industrial-protocols-overview"},
		LibraryDocs: []LibraryDoc{
			{Name: "pycomm3", URL: "https://docs.pycomm3.dev/", Language: "Python"},
			{Name: "ethernet-ip", URL: "https://github.com/cmseaton42/node-ethernet-ip", Language: "Node.js"},
		},
		Icon: "boxes",
	},
	{
		ID:               "dnp3",
		Name:             "DNP3",
		ShortDescription: "Event-driven telecontrol protocol for electric and water utilities.",
		Overview: "DNP3 assumes unreliable links and long distances. Points carry state, quality and time; " +
			"outstations report events with acknowledgements rather than waiting to be polled. Secure " +
			"Authentication profiles add integrity protection.",
		TransportLayer: TransportLayer{
			Type:        "TCP/IP",
			Port:        20000,
			Description: "TCP port 20000. Layered link/transport/application framing with CRC per 16-byte block.",
		},
		HMI: HMIConfig{Enabled: true, HMIPath: "/dnp3", ServerPort: 20000},
		TestWorkflow: []string{
			"Perform an integrity poll from the SCADA master",
			"Trigger a binary point change and watch the unsolicited response",
			"Run termshark with filter: port 20000",
		},
		RelatedBlogs: []string{"industrial-protocols-overview"},
		LibraryDocs: []LibraryDoc{
			{Name: "pydnp3", URL: "https://github.com/ChargePoint/pydnp3", Language: "Python"},
			{Name: "opendnp3", URL: "https://dnp3.github.io/", Language: "C++"},
		},
		Icon: "zap",
	},
	{
		ID:               "iec104",
		Name:             "IEC 60870-5-104",
		ShortDescription: "European telecontrol standard for SCADA communication over TCP/IP.",
		Overview: "IEC-104 carries the IEC 60870-5-101 application layer over TCP. Information objects are " +
			"addressed by type and cause of transmission, with sequence-numbered APDUs and an explicit " +
			"start/stop data transfer workflow.",
		TransportLayer: TransportLayer{
			Type:        "TCP/IP",
			Port:        2404,
			Description: "TCP port 2404. APCI framing with I/S/U format APDUs and k/w flow-control windows.",
		},
		HMI: HMIConfig{Enabled: true, HMIPath: "/iec104", ServerPort: 2404},
		TestWorkflow: []string{
			"Send STARTDT and confirm the activation",
			"Issue a general interrogation and inspect the returned information objects",
			"Run termshark with filter: port 2404",
		},
		RelatedBlogs: []string{"industrial-protocols-overview"},
		LibraryDocs: []LibraryDoc{
			{Name: "lib60870", URL: "https://github.com/mz-automation/lib60870", Language: "C"},
			{Name: "iec104", URL: "https://github.com/mz-automation/lib60870-Python", Language: "Python"},
		},
		Icon: "tower-control",
	},
	{
		ID:               "mqtt",
		Name:             "MQTT",
		ShortDescription: "Lightweight brokered publish/subscribe messaging for IIoT telemetry.",
		Overview: "MQTT deliberately avoids modeling the physical world. Clients publish messages to topics " +
			"on a broker; semantics live in topic structure and payload conventions. Three QoS levels trade " +
			"delivery guarantees against overhead.",
		TransportLayer: TransportLayer{
			Type:        "TCP/IP",
			Port:        1883,
			Description: "TCP port 1883 (8883 with TLS). Binary framing with fixed header, variable header and payload.",
		},
		HMI: HMIConfig{Enabled: true, HMIPath: "/mqtt", ServerPort: 1883},
		TestWorkflow: []string{
			"Connect to the broker and subscribe to the telemetry topic tree",
			"Publish setpoint messages at QoS 1 and watch the PUBACK flow",
			"Run termshark with filter: port 1883",
		},
		RelatedBlogs: []string{"industrial-protocols-overview", "ot-it-convergence-basics"},
		LibraryDocs: []LibraryDoc{
			{Name: "paho-mqtt", URL: "https://eclipse.dev/paho/files/paho.mqtt.python/html/", Language: "Python"},
			{Name: "mosquitto", URL: "https://mosquitto.org/documentation/", Language: "C"},
			{Name: "mqtt.js", URL: "https://github.com/mqttjs/MQTT.js", Language: "Node.js"},
		},
		Icon: "radio",
	},
	{
		ID:               "s7",
		Name:             "S7comm",
		ShortDescription: "Siemens' proprietary protocol for SIMATIC S7 PLC communication.",
		Overview: "S7comm reads and writes PLC memory areas (DB, M, I, Q) over ISO-on-TCP sessions. Like " +
			"Modbus it is semantically blind: a data block offset means whatever the PLC program says it " +
			"means. Historically weak security, hardened only in recent firmware generations.",
		TransportLayer: TransportLayer{
			Type:        "ISO-on-TCP",
			Port:        102,
			Description: "TPKT/COTP on TCP port 102 carrying the S7 PDU (header, parameters, data).",
		},
		HMI: HMIConfig{Enabled: true, HMIPath: "/s7", ServerPort: 102},
		TestWorkflow: []string{
			"Connect to the simulated S7 PLC and list data blocks",
			"Read and write DB variables from the SCADA interface",
			"Run termshark with filter: port 102",
		},
		RelatedBlogs: []string{"industrial-protocols-overview"},
		LibraryDocs: []LibraryDoc{
			{Name: "python-snap7", URL: "https://python-snap7.readthedocs.io/", Language: "Python"},
			{Name: "snap7", URL: "https://snap7.sourceforge.net/", Language: "C"},
			{Name: "nodes7", URL: "https://github.com/plcpeople/nodeS7", Language: "Node.js"},
		},
		Icon: "cpu",
	},
	{
		ID:               "bacnet",
		Name:             "BACnet",
		ShortDescription: "Object-oriented building automation protocol for HVAC, lighting and access control.",
		Overview: "BACnet models building equipment as objects with typed properties and standardized " +
			"services. BACnet/IP runs over UDP with Who-Is/I-Am discovery, COV subscriptions and priority " +
			"arrays for command arbitration.",
		TransportLayer: TransportLayer{
			Type:        "UDP/IP",
			Port:        47808,
			Description: "UDP port 47808 (0xBAC0). BVLL framing over NPDU/APDU layers; broadcast discovery.",
		},
		HMI: HMIConfig{Enabled: true, HMIPath: "/bacnet", ServerPort: 47808},
		TestWorkflow: []string{
			"Discover devices with Who-Is and inspect the I-Am responses",
			"Read present-value properties of analog objects",
			"Write with priority and release the override",
			"Run termshark with filter: port 47808",
		},
		RelatedBlogs: []string{"industrial-protocols-overview"},
		LibraryDocs: []LibraryDoc{
			{Name: "bacpypes", URL: "https://bacpypes.readthedocs.io/", Language: "Python"},
			{Name: "bacnet-stack", URL: "https://github.com/bacnet-stack/bacnet-stack", Language: "C"},
			{Name: "node-bacnet", URL: "https://github.com/fh1ch/node-bacnet", Language: "Node.js"},
		},
		Icon: "building",
	},
}

var seedTools = []Tool{
	{
		Slug:        "wireshark",
		Name:        "Wireshark",
		Description: "The world's foremost network protocol analyzer with dissectors for every protocol in the lab.",
		Content: "<p>Wireshark captures and dissects live traffic. For lab work, start a capture on the " +
			"simulator's port and use display filters to follow a single conversation end to end.</p>",
		Category:       "Network Analysis",
		Version:        "4.2",
		InstallCommand: "apt install wireshark",
		DocsURL:        "https://www.wireshark.org/docs/",
		Icon:           "activity",
	},
	{
		Slug:        "termshark",
		Name:        "Termshark",
		Description: "A terminal UI for tshark, used inside the diagnostics container.",
		Content: "<p>Termshark brings Wireshark's dissection tree to the terminal. The diagnostics " +
			"container ships it preinstalled so captures can be inspected next to the simulators.</p>",
		Category:       "Network Analysis",
		Version:        "2.4",
		InstallCommand: "go install github.com/gcla/termshark/v2/cmd/termshark@latest",
		DocsURL:        "https://termshark.io/",
		Icon:           "terminal",
	},
	{
		Slug:        "docker",
		Name:        "Docker",
		Description: "Container runtime running every protocol simulator in the lab.",
		Content: "<p>Each protocol simulator runs in its own container. The lab controller starts and " +
			"stops them on demand; the diagnostics endpoint reports their health.</p>",
		Category:       "Infrastructure",
		Version:        "27",
		InstallCommand: "curl -fsSL https://get.docker.com | sh",
		DocsURL:        "https://docs.docker.com/",
		Icon:           "container",
	},
}
