package verify_test

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/southwarridev/ovie-sub003/compiler/mir"
	"github.com/southwarridev/ovie-sub003/compiler/verify"
)

var _ = Describe("CompleteABI", func() {
	var (
		bld *mir.Builder
		p   *mir.Program
	)

	BeforeEach(func() {
		bld = buildMain()
		p = bld.Program()
	})

	It("accepts a well-formed program", func() {
		Expect(verify.CompleteABI(p)).To(BeEmpty())
	})

	It("accepts a void return type", func() {
		f := bld.NewFunc("side_effect")
		bld.SetRet(f, mir.Void)

		blk := bld.NewBlock(f, "entry")
		bld.Ret(blk, nil)

		Expect(verify.CompleteABI(p)).To(BeEmpty())
	})

	It("reports an empty function name", func() {
		f := bld.NewFunc("")
		bld.SetRet(f, mir.Void)

		blk := bld.NewBlock(f, "entry")
		bld.Ret(blk, nil)

		vs := verify.CompleteABI(p)

		Expect(vs).To(HaveLen(1))
		Expect(vs[0].Stage).To(Equal(verify.StageABI))
		Expect(vs[0].Message).To(Equal(fmt.Sprintf("Function `%v` has empty name.", f.ID)))
		Expect(vs[0].Func).To(Equal(f.ID))
	})

	It("reports an untyped parameter by index", func() {
		main := funcNamed(p, "main")

		main.Params = append(main.Params, mir.Parameter{Name: "ghost"})

		vs := verify.CompleteABI(p)

		Expect(vs).To(HaveLen(1))
		Expect(vs[0].Message).To(Equal(fmt.Sprintf("Function `%v` parameter `0` has no type.", main.ID)))
	})

	It("reports a return type left unset", func() {
		f := bld.NewFunc("mystery")

		blk := bld.NewBlock(f, "entry")
		bld.Ret(blk, nil)

		vs := verify.CompleteABI(p)

		Expect(vs).To(HaveLen(1))
		Expect(vs[0].Message).To(Equal(fmt.Sprintf("Function `%v` has no return type.", f.ID)))
	})

	It("reports a return type outside the lattice", func() {
		main := funcNamed(p, "main")

		main.Ret = mir.Type(99)

		vs := verify.CompleteABI(p)

		Expect(vs).To(HaveLen(1))
		Expect(vs[0].Message).To(Equal(fmt.Sprintf("Function `%v` has invalid return type `%v`.", main.ID, mir.Type(99))))
	})

	It("reports every function that is broken", func() {
		a := bld.NewFunc("")
		bld.SetRet(a, mir.Void)
		ablk := bld.NewBlock(a, "entry")
		bld.Ret(ablk, nil)

		c := bld.NewFunc("late")
		cblk := bld.NewBlock(c, "entry")
		bld.Ret(cblk, nil)

		vs := verify.CompleteABI(p)

		Expect(vs).To(HaveLen(2))
		Expect(vs[0].Func).To(Equal(a.ID))
		Expect(vs[1].Func).To(Equal(c.ID))
	})
})
