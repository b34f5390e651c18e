package patch

import "github.com/arloliu/ctpatch/codec"

// DumpRequest asks the synth to send back the patch loaded at Location.
type DumpRequest struct {
	Header    Header       `yaml:"header"`
	CommandID SysexCommand `yaml:"command_id"`
	Location  uint8        `yaml:"location"`
	Footer    Footer       `yaml:"footer"`
}

// DumpRequestSchema is the codec of a dump request packet.
var DumpRequestSchema = codec.Record[DumpRequest]("DumpRequest",
	codec.Nested("header", headerCodec, func(r *DumpRequest) *Header { return &r.Header }),
	codec.Scalar("command_id", func(r *DumpRequest) *SysexCommand { return &r.CommandID }),
	codec.Scalar("location", func(r *DumpRequest) *uint8 { return &r.Location }),
	codec.Nested("footer", footerCodec, func(r *DumpRequest) *Footer { return &r.Footer }),
)

// NewDumpRequest returns a current patch dump request for location.
func NewDumpRequest(location uint8) DumpRequest {
	return DumpRequest{
		Header:    Header{SysEx: StartOfExclusive, MfrID: append(Raw(nil), NovationID...), ProdType: ProductType, ProdNum: ProductTracks},
		CommandID: CmdRequestDumpCurrentPatch,
		Location:  location,
		Footer:    Footer{EOX: EndOfExclusive},
	}
}
