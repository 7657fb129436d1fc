package renderer

import (
	"fmt"
	"log"
	"os"

	vk "github.com/goki/vulkan"

	"vulkan_triangle/core"
)

// LoadVert reads a '.spv' file with the expectation of it containing a vertex
// shader for later use in a render pipeline. For this, a shader module
// (containing the shader code) and its vk.PipelineShaderStageCreateInfo is
// returned. Which is required to bind the shader to the pipeline.
func LoadVert(d vk.Device, path string) (vk.ShaderModule, vk.PipelineShaderStageCreateInfo, error) {
	vertMod, err := readShaderCode(d, path)
	if err != nil {
		return nil, vk.PipelineShaderStageCreateInfo{}, err
	}
	log.Printf("Created vertex shader module: %v", vertMod)

	vertexShaderStageInfo := vk.PipelineShaderStageCreateInfo{
		SType:               vk.StructureTypePipelineShaderStageCreateInfo,
		PNext:               nil,
		Flags:               0,
		Stage:               vk.ShaderStageVertexBit,
		Module:              vertMod,
		PName:               "main\x00", // entrypoint -> function name in the shader
		PSpecializationInfo: nil,
	}
	return vertMod, vertexShaderStageInfo, nil
}

// LoadFrag reads a '.spv' file with the expectation of it containing a
// fragment shader for later use in a render pipeline. For this, a shader
// module (containing the shader code) and its
// vk.PipelineShaderStageCreateInfo is returned. Which is required to bind the
// shader to the pipeline.
func LoadFrag(d vk.Device, path string) (vk.ShaderModule, vk.PipelineShaderStageCreateInfo, error) {
	fragMod, err := readShaderCode(d, path)
	if err != nil {
		return nil, vk.PipelineShaderStageCreateInfo{}, err
	}
	log.Printf("Created fragment shader module: %v", fragMod)

	fragmentShaderStageInfo := vk.PipelineShaderStageCreateInfo{
		SType:               vk.StructureTypePipelineShaderStageCreateInfo,
		PNext:               nil,
		Flags:               0,
		Stage:               vk.ShaderStageFragmentBit,
		Module:              fragMod,
		PName:               "main\x00", // entrypoint -> function name in the shader
		PSpecializationInfo: nil,
	}
	return fragMod, fragmentShaderStageInfo, nil
}

// DeleteShaderMod discards a shader module. As vk.ShaderModule is only meant
// as a container to move the shader code onto device memory, it can be
// destroyed right after creating a shader stage when binding to a rendering
// pipeline.
func DeleteShaderMod(d vk.Device, mod vk.ShaderModule) {
	vk.DestroyShaderModule(d, mod, nil)
}

func readShaderCode(d vk.Device, shaderFile string) (vk.ShaderModule, error) {
	shaderCodeB, err := os.ReadFile(shaderFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read shader file '%s': %w", shaderFile, err)
	}
	shaderCodeLen := uint64(len(shaderCodeB))
	log.Printf("Read shader file (%s) of size: %dByte", shaderFile, shaderCodeLen)

	createInfo := &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		PNext:    nil,
		Flags:    0,
		CodeSize: shaderCodeLen,
		PCode:    core.AsUint32Arr(shaderCodeB),
	}
	module, err := core.VkCreateShaderModule(d, createInfo, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader module '%s': %w", shaderFile, err)
	}
	return module, nil
}
