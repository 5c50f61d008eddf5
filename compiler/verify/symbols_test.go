package verify_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/southwarridev/ovie-sub003/compiler/mir"
	"github.com/southwarridev/ovie-sub003/compiler/verify"
)

var _ = Describe("ResolvedSymbols", func() {
	var (
		bld *mir.Builder
		p   *mir.Program
	)

	BeforeEach(func() {
		bld = buildMain()
		p = bld.Program()
	})

	It("accepts a well-formed program", func() {
		Expect(verify.ResolvedSymbols(p)).To(BeEmpty())
	})

	It("reports a global reference nothing declares", func() {
		main := funcNamed(p, "main")

		entry, err := main.Block(main.Entry)
		Expect(err).NotTo(HaveOccurred())

		r, err := bld.Append(main, entry, mir.Load, mir.Int, mir.GlobalRef("missing"))
		Expect(err).NotTo(HaveOccurred())

		vs := verify.ResolvedSymbols(p)

		Expect(vs).To(HaveLen(1))
		Expect(vs[0].Stage).To(Equal(verify.StageSymbols))
		Expect(vs[0].Message).To(Equal("Unresolved global symbol `missing`"))
		Expect(vs[0].Symbol).To(Equal("missing"))
		Expect(vs[0].Instr).To(Equal(mir.InstrID(r)))
	})

	It("reports an instruction reference nothing produced", func() {
		f := bld.NewFunc("loose")
		bld.SetRet(f, mir.Int)

		blk := bld.NewBlock(f, "entry")
		bld.Ret(blk, mir.Ref(404))

		vs := verify.ResolvedSymbols(p)

		Expect(vs).To(HaveLen(1))
		Expect(vs[0].Message).To(Equal("Unresolved instruction reference `404`"))
		Expect(vs[0].Instr).To(Equal(mir.NoInstr))
	})

	It("scopes instruction ids to their function", func() {
		f := bld.NewFunc("other")
		bld.SetRet(f, mir.Int)

		blk := bld.NewBlock(f, "entry")
		bld.Ret(blk, mir.Ref(0))

		vs := verify.ResolvedSymbols(p)

		Expect(vs).To(HaveLen(1))
		Expect(vs[0].Message).To(Equal("Unresolved instruction reference `0`"))
		Expect(vs[0].Func).To(Equal(f.ID))
	})

	It("reports a call target nothing declares", func() {
		main := funcNamed(p, "main")

		entry, err := main.Block(main.Entry)
		Expect(err).NotTo(HaveOccurred())

		_, err = bld.AppendCall(main, entry, "nonexistent", mir.Int)
		Expect(err).NotTo(HaveOccurred())

		vs := verify.ResolvedSymbols(p)

		Expect(vs).To(HaveLen(1))
		Expect(vs[0].Message).To(Equal("Unresolved function call `nonexistent`"))
		Expect(vs[0].Symbol).To(Equal("nonexistent"))
	})

	It("accepts a call that targets a declared global", func() {
		main := funcNamed(p, "main")

		entry, err := main.Block(main.Entry)
		Expect(err).NotTo(HaveOccurred())

		_, err = bld.AppendCall(main, entry, "limit", mir.Int)
		Expect(err).NotTo(HaveOccurred())

		Expect(verify.ResolvedSymbols(p)).To(BeEmpty())
	})

	It("checks branch conditions and return values", func() {
		f := bld.NewFunc("twisty")
		bld.SetRet(f, mir.Int)

		entry := bld.NewBlock(f, "entry")
		exit := bld.NewBlock(f, "exit")

		bld.Branch(entry, mir.Ref(77), exit.ID, exit.ID)
		bld.Ret(exit, mir.GlobalRef("gone"))

		vs := verify.ResolvedSymbols(p)

		Expect(vs).To(HaveLen(2))
		Expect(vs[0].Message).To(Equal("Unresolved instruction reference `77`"))
		Expect(vs[1].Message).To(Equal("Unresolved global symbol `gone`"))
	})
})
