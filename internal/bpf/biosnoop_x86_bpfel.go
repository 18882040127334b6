// Code generated by bpf2go; DO NOT EDIT.
//go:build 386 || amd64

package bpf

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"

	"github.com/cilium/ebpf"
)

type biosnoopPiddata struct {
	Comm [16]int8
	Pid  uint32
}

type biosnoopStage struct {
	Insert uint64
	Issue  uint64
}

// loadBiosnoop returns the embedded CollectionSpec for biosnoop.
func loadBiosnoop() (*ebpf.CollectionSpec, error) {
	reader := bytes.NewReader(_BiosnoopBytes)
	spec, err := ebpf.LoadCollectionSpecFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("can't load biosnoop: %w", err)
	}

	return spec, err
}

// loadBiosnoopObjects loads biosnoop and converts it into a struct.
//
// The following types are suitable as obj argument:
//
//	*biosnoopObjects
//	*biosnoopPrograms
//	*biosnoopMaps
//
// See ebpf.CollectionSpec.LoadAndAssign documentation for details.
func loadBiosnoopObjects(obj interface{}, opts *ebpf.CollectionOptions) error {
	spec, err := loadBiosnoop()
	if err != nil {
		return err
	}

	return spec.LoadAndAssign(obj, opts)
}

// biosnoopSpecs contains maps and programs before they are loaded into the kernel.
//
// It can be passed ebpf.CollectionSpec.Assign.
type biosnoopSpecs struct {
	biosnoopProgramSpecs
	biosnoopMapSpecs
}

// biosnoopSpecs contains programs before they are loaded into the kernel.
//
// It can be passed ebpf.CollectionSpec.Assign.
type biosnoopProgramSpecs struct {
	BlkAccountIoMergeBio *ebpf.ProgramSpec `ebpf:"blk_account_io_merge_bio"`
	BlkAccountIoStart    *ebpf.ProgramSpec `ebpf:"blk_account_io_start"`
	BlockRqComplete      *ebpf.ProgramSpec `ebpf:"block_rq_complete"`
	BlockRqInsert        *ebpf.ProgramSpec `ebpf:"block_rq_insert"`
	BlockRqIssue         *ebpf.ProgramSpec `ebpf:"block_rq_issue"`
}

// biosnoopMapSpecs contains maps before they are loaded into the kernel.
//
// It can be passed ebpf.CollectionSpec.Assign.
type biosnoopMapSpecs struct {
	CgroupMap *ebpf.MapSpec `ebpf:"cgroup_map"`
	Events    *ebpf.MapSpec `ebpf:"events"`
	Infobyreq *ebpf.MapSpec `ebpf:"infobyreq"`
	Start     *ebpf.MapSpec `ebpf:"start"`
}

// biosnoopObjects contains all objects after they have been loaded into the kernel.
//
// It can be passed to loadBiosnoopObjects or ebpf.CollectionSpec.LoadAndAssign.
type biosnoopObjects struct {
	biosnoopPrograms
	biosnoopMaps
}

func (o *biosnoopObjects) Close() error {
	return _BiosnoopClose(
		&o.biosnoopPrograms,
		&o.biosnoopMaps,
	)
}

// biosnoopMaps contains all maps after they have been loaded into the kernel.
//
// It can be passed to loadBiosnoopObjects or ebpf.CollectionSpec.LoadAndAssign.
type biosnoopMaps struct {
	CgroupMap *ebpf.Map `ebpf:"cgroup_map"`
	Events    *ebpf.Map `ebpf:"events"`
	Infobyreq *ebpf.Map `ebpf:"infobyreq"`
	Start     *ebpf.Map `ebpf:"start"`
}

func (m *biosnoopMaps) Close() error {
	return _BiosnoopClose(
		m.CgroupMap,
		m.Events,
		m.Infobyreq,
		m.Start,
	)
}

// biosnoopPrograms contains all programs after they have been loaded into the kernel.
//
// It can be passed to loadBiosnoopObjects or ebpf.CollectionSpec.LoadAndAssign.
type biosnoopPrograms struct {
	BlkAccountIoMergeBio *ebpf.Program `ebpf:"blk_account_io_merge_bio"`
	BlkAccountIoStart    *ebpf.Program `ebpf:"blk_account_io_start"`
	BlockRqComplete      *ebpf.Program `ebpf:"block_rq_complete"`
	BlockRqInsert        *ebpf.Program `ebpf:"block_rq_insert"`
	BlockRqIssue         *ebpf.Program `ebpf:"block_rq_issue"`
}

func (p *biosnoopPrograms) Close() error {
	return _BiosnoopClose(
		p.BlkAccountIoMergeBio,
		p.BlkAccountIoStart,
		p.BlockRqComplete,
		p.BlockRqInsert,
		p.BlockRqIssue,
	)
}

func _BiosnoopClose(closers ...io.Closer) error {
	for _, closer := range closers {
		if err := closer.Close(); err != nil {
			return err
		}
	}
	return nil
}

// Do not access this directly.
//
//go:embed biosnoop_x86_bpfel.o
var _BiosnoopBytes []byte
